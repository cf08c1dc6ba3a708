package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/observability/metrics"
)

// HttpClient is implemented by the outbound service clients so requests share
// timeout handling, JSON codec and per-endpoint metrics.
type HttpClient interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() time.Duration
	GetHttpClient() *http.Client
}

type HttpClientOptions struct {
	Path string
	// TemplatePath is the parametrised path used as the metrics label, so
	// query strings and identifiers do not explode the label cardinality.
	TemplatePath string
	Headers      map[string]string
}

func SendRequest[I any, O any](
	ctx context.Context,
	c HttpClient,
	method string,
	opts *HttpClientOptions,
	input *I,
) (*O, error) {
	url := c.GetBaseURL() + opts.Path

	var body io.Reader
	if input != nil {
		payload, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.GetDefaultRequestTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	timer := metrics.StartClientRequestDurationTimer(c.GetBaseURL(), method, opts.TemplatePath)

	resp, err := c.GetHttpClient().Do(req)
	if err != nil {
		timer(0)
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	timer(resp.StatusCode)

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limit exceeded for %s", url)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, raw)
	}

	var output O
	if err := json.NewDecoder(resp.Body).Decode(&output); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", url, err)
	}

	return &output, nil
}
