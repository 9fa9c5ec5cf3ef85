package clients

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Peer-service call outcomes. Handlers map ErrNotFound to 404 and
// ErrUnavailable to 503 so an unreachable upstream stays distinguishable
// from a genuine miss.
var (
	ErrNotFound    = errors.New("resource not found")
	ErrUnavailable = errors.New("upstream service unavailable")
)

const (
	maxAttempts  = 3
	retryBackoff = 250 * time.Millisecond
)

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   2 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 2 * time.Second,
		},
	}
}

// doWithRetry issues the request up to maxAttempts times, backing off
// between attempts. Network errors and 5xx responses are retried; any
// other response is returned as-is. The request must have no body or a
// body set via req.GetBody so it can be replayed.
func doWithRetry(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt-1) * retryBackoff):
			}
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				req.Body = body
			}
		}

		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = ErrUnavailable
			continue
		}
		return resp, nil
	}

	if lastErr == nil {
		lastErr = ErrUnavailable
	}
	return nil, lastErr
}
