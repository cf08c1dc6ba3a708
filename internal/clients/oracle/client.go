package oracle

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/clients/client"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/config"
	"github.com/rs/zerolog/log"
)

const defaultMaxRetryTimes = 3
const defaultRetryInterval = 5 * time.Second

// Pool holds the live reserves of one liquidity pool, with reserves already
// parsed into human token units.
type Pool struct {
	Address   string
	Token1    string
	Token2    string
	Reserved1 float64
	Reserved2 float64
}

// endpoint adapts one configured URL to the shared HTTP client contract.
// The price and pools endpoints live on different hosts.
type endpoint struct {
	httpClient *http.Client
	timeout    time.Duration
	baseURL    string
	path       string
}

func (e *endpoint) GetBaseURL() string {
	return e.baseURL
}

func (e *endpoint) GetDefaultRequestTimeout() time.Duration {
	return e.timeout
}

func (e *endpoint) GetHttpClient() *http.Client {
	return e.httpClient
}

type Client struct {
	cfg   *config.OracleConfig
	price *endpoint
	pools *endpoint
}

func NewClient(cfg *config.OracleConfig) (*Client, error) {
	httpClient := &http.Client{}

	priceBase, pricePath, err := client.ParseEndpoint(cfg.PriceEndpoint)
	if err != nil {
		return nil, err
	}
	poolsBase, poolsPath, err := client.ParseEndpoint(cfg.PoolsEndpoint)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg: cfg,
		price: &endpoint{
			httpClient: httpClient,
			timeout:    cfg.Timeout,
			baseURL:    priceBase,
			path:       pricePath,
		},
		pools: &endpoint{
			httpClient: httpClient,
			timeout:    cfg.Timeout,
			baseURL:    poolsBase,
			path:       poolsPath,
		},
	}, nil
}

func (c *Client) GetBaseAssetPriceUSD(ctx context.Context) (float64, error) {
	type empty struct{}
	type priceResponse struct {
		USD float64 `json:"usd"`
	}

	callForPrice := func() (float64, error) {
		opts := &client.HttpClientOptions{
			Path:         c.price.path,
			TemplatePath: c.price.path,
		}

		resp, err := client.SendRequest[empty, priceResponse](ctx, c.price, http.MethodGet, opts, nil)
		if err != nil {
			return 0, err
		}
		if resp.USD <= 0 {
			return 0, fmt.Errorf("oracle returned non-positive base asset price: %f", resp.USD)
		}

		return resp.USD, nil
	}

	price, err := clientCallWithRetry(ctx, callForPrice, c.cfg.MaxRetryTimes, c.cfg.RetryInterval)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch base asset price: %w", err)
	}

	return price, nil
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// rawPool mirrors the upstream allPools schema, which serves reserves as
// decimal strings.
type rawPool struct {
	Address   string `json:"address"`
	Token1    string `json:"token1"`
	Token2    string `json:"token2"`
	Reserved1 string `json:"reserved1"`
	Reserved2 string `json:"reserved2"`
}

func (c *Client) GetAllPools(ctx context.Context) ([]Pool, error) {
	type poolsResponse struct {
		Data struct {
			AllPools []rawPool `json:"allPools"`
		} `json:"data"`
		Errors []graphQLError `json:"errors"`
	}

	query := `query allPools {
		allPools {
			address
			token1
			token2
			reserved1
			reserved2
		}
	}`

	callForPools := func() ([]Pool, error) {
		opts := &client.HttpClientOptions{
			Path:         c.pools.path,
			TemplatePath: c.pools.path,
		}
		input := &graphQLRequest{Query: query}

		resp, err := client.SendRequest[graphQLRequest, poolsResponse](ctx, c.pools, http.MethodPost, opts, input)
		if err != nil {
			return nil, err
		}
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("graphql error: %s", resp.Errors[0].Message)
		}

		pools := make([]Pool, 0, len(resp.Data.AllPools))
		for _, raw := range resp.Data.AllPools {
			pool, err := raw.parse()
			if err != nil {
				log.Ctx(ctx).Warn().
					Err(err).
					Str("pool_address", raw.Address).
					Msg("Skipping pool with malformed reserves")
				continue
			}
			pools = append(pools, pool)
		}

		return pools, nil
	}

	pools, err := clientCallWithRetry(ctx, callForPools, c.cfg.MaxRetryTimes, c.cfg.RetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pools: %w", err)
	}

	return pools, nil
}

func (r rawPool) parse() (Pool, error) {
	reserved1, err := strconv.ParseFloat(r.Reserved1, 64)
	if err != nil {
		return Pool{}, fmt.Errorf("invalid reserved1 %q: %w", r.Reserved1, err)
	}
	reserved2, err := strconv.ParseFloat(r.Reserved2, 64)
	if err != nil {
		return Pool{}, fmt.Errorf("invalid reserved2 %q: %w", r.Reserved2, err)
	}

	return Pool{
		Address:   r.Address,
		Token1:    r.Token1,
		Token2:    r.Token2,
		Reserved1: reserved1,
		Reserved2: reserved2,
	}, nil
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
	maxRetryTimes uint,
	retryInterval time.Duration,
) (T, error) {
	if maxRetryTimes == 0 {
		maxRetryTimes = defaultMaxRetryTimes
	}
	if retryInterval == 0 {
		retryInterval = defaultRetryInterval
	}

	result, err := retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(maxRetryTimes),
		retry.Delay(retryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", maxRetryTimes).
				Err(err).
				Msg("oracle call failed, retrying with exponential backoff")
		}))
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
