package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// RetryPolicy bounds how often a failed download is attempted again.
type RetryPolicy struct {
	Retries   int
	FirstWait time.Duration
	MaxWait   time.Duration
}

// wait returns the pause before retry n (0-based), doubling each time up to MaxWait.
func (p RetryPolicy) wait(n int) time.Duration {
	d := p.FirstWait << n
	if p.MaxWait > 0 && (d > p.MaxWait || d <= 0) {
		d = p.MaxWait
	}
	return d
}

var (
	errThrottled    = errors.New("dataset host throttled the download")
	errHostFailure  = errors.New("dataset host failed")
	errRejected     = errors.New("dataset download rejected")
	errBreakerOpen  = errors.New("dataset downloads paused")
	errNoClient     = errors.New("no http client for dataset download")
	errBadRetryRule = errors.New("invalid dataset retry policy")
)

// statusError maps a non-2xx response to one of the download errors.
// Only throttling and host failures are worth retrying.
func statusError(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return errThrottled
	case code >= 500:
		return errHostFailure
	default:
		return fmt.Errorf("%w: status %d", errRejected, code)
	}
}

// fetch GETs the dataset through the circuit breaker, retrying transport
// errors, throttling and 5xx responses according to policy. The caller closes
// the returned body.
func fetch(
	ctx context.Context,
	client *http.Client,
	policy RetryPolicy,
	cb *gobreaker.CircuitBreaker,
	newRequest func(ctx context.Context) (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errNoClient
	}
	if policy.Retries < 0 || policy.FirstWait <= 0 {
		return nil, errBadRetryRule
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := newRequest(ctx)
		if err != nil {
			return nil, err
		}

		result, err := cb.Execute(func() (interface{}, error) {
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				resp.Body.Close()
				return nil, statusError(resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, fmt.Errorf("%w: %v", errBreakerOpen, err)
		case errors.Is(err, errRejected), attempt >= policy.Retries:
			return nil, err
		}

		timer := time.NewTimer(policy.wait(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
