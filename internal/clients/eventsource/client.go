package eventsource

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/clients/client"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/config"
	"github.com/rs/zerolog/log"
)

const defaultMaxRetryTimes = 3
const defaultRetryInterval = 5 * time.Second

type Client struct {
	httpClient *http.Client
	cfg        *config.EventSourceConfig
	baseURL    string
	path       string
}

func (c *Client) GetBaseURL() string {
	return c.baseURL
}

func (c *Client) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *Client) GetHttpClient() *http.Client {
	return c.httpClient
}

func NewClient(cfg *config.EventSourceConfig) (*Client, error) {
	baseURL, path, err := client.ParseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
		baseURL:    baseURL,
		path:       path,
	}, nil
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

func (c *Client) GetPoolEvents(ctx context.Context, afterBlock uint64) ([]PoolEvent, error) {
	type eventsResponse struct {
		Data struct {
			PoolEvents []PoolEvent `json:"poolEvents"`
		} `json:"data"`
		Errors []graphQLError `json:"errors"`
	}

	query := fmt.Sprintf(
		`query {
			poolEvents(where: { blockHeight_gt: %d, type_in: [Swap, Mint, Burn] }, orderBy: blockHeight_ASC, limit: %d) {
				id
				blockHeight
				toAddress
				senderAddress
				signerAddress
				type
				amount1
				amount2
				pool {
					id
					token1 { id }
					token2 { id }
				}
			}
		}`, afterBlock, c.cfg.PageSize)

	callForEvents := func() ([]PoolEvent, error) {
		opts := &client.HttpClientOptions{
			Path:         c.path,
			TemplatePath: c.path,
		}
		input := &graphQLRequest{Query: query}

		resp, err := client.SendRequest[graphQLRequest, eventsResponse](ctx, c, http.MethodPost, opts, input)
		if err != nil {
			return nil, err
		}
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("graphql error: %s", resp.Errors[0].Message)
		}

		return resp.Data.PoolEvents, nil
	}

	events, err := clientCallWithRetry(ctx, callForEvents, c.cfg.MaxRetryTimes, c.cfg.RetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pool events after block %d: %w", afterBlock, err)
	}

	return events, nil
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
				Msg("event source call failed, retrying with exponential backoff")
		}))
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
