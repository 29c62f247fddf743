package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"
)

// maxBodyBytes caps how much of any single response is read into memory.
const maxBodyBytes = 64 << 20

// RetryPolicy retries transport failures and transient statuses with
// exponential backoff. Retries counts attempts after the first try.
type RetryPolicy struct {
	Retries int
	Backoff time.Duration
}

type response struct {
	StatusCode int
	Body       []byte
}

func (r *response) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// retryable reports whether a status may be retried. 502 and 504 are
// retried only for idempotent requests.
func retryable(status int, idempotent bool) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return idempotent
	}
	return false
}

// notSent reports whether a transport error happened before the request
// left this process.
func notSent(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// do sends an idempotent request built by newReq, rebuilding it for every
// attempt so request bodies can be replayed. A non-retryable HTTP status is
// returned as a response, not an error; the caller decides what it means.
func (p RetryPolicy) do(ctx context.Context, client *http.Client, tag string, newReq func(context.Context) (*http.Request, error)) (*response, error) {
	return p.send(ctx, client, tag, true, newReq)
}

// doOnce sends a request that must not be applied twice. It is retried only
// when the server cannot have acted on it: a failed dial, 429 or 503.
func (p RetryPolicy) doOnce(ctx context.Context, client *http.Client, tag string, newReq func(context.Context) (*http.Request, error)) (*response, error) {
	return p.send(ctx, client, tag, false, newReq)
}

func (p RetryPolicy) send(ctx context.Context, client *http.Client, tag string, idempotent bool, newReq func(context.Context) (*http.Request, error)) (*response, error) {
	var lastErr error
	for attempt := 0; attempt <= p.Retries; attempt++ {
		if attempt > 0 {
			backoff := p.Backoff << (attempt - 1)
			log.Printf("[%s] Retry attempt %d after %v (last error: %v)", tag, attempt, backoff, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := newReq(ctx)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			lastErr = fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
			if !idempotent && !notSent(err) {
				return nil, lastErr
			}
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response from %s: %w", req.URL.Redacted(), err)
			if !idempotent {
				return nil, lastErr
			}
			continue
		}

		if retryable(resp.StatusCode, idempotent) && attempt < p.Retries {
			lastErr = fmt.Errorf("%s %s returned status %d", req.Method, req.URL.Redacted(), resp.StatusCode)
			continue
		}
		return &response{StatusCode: resp.StatusCode, Body: body}, nil
	}
	return nil, lastErr
}

// snippet shortens a response body for log lines and error messages.
func snippet(body []byte) string {
	const max = 300
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
