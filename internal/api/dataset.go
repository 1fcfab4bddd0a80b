package api

import (
	"context"
	"fmt"
	"time"

	"soda-game/internal/constants"

	"github.com/valyala/fasthttp"
)

// DatasetClient fetches packaged game data published over HTTP, e.g. the
// game-data.json asset of the deployed site.
type DatasetClient struct {
	client  *fasthttp.Client
	timeout time.Duration
}

func NewDatasetClient() *DatasetClient {
	return &DatasetClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     4,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
			// game-data.json runs to a few MB once every season is packaged
			MaxResponseBodySize: 64 << 20,
		},
		timeout: constants.RemoteFetchTimeout,
	}
}

// Fetch returns the body of a GET to url. Non-200 responses are errors. Without
// a ctx deadline the request is bounded by RemoteFetchTimeout.
func (c *DatasetClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode())
	}

	// resp is released on return
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
