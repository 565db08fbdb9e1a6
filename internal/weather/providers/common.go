package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/skycast/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and outbound pacing settings.
// Requests are never retried; a failed call surfaces to the caller as is.
type HTTPClientConfig struct {
	Client  *http.Client
	Limiter *rate.Limiter
	// CircuitBreaker lets the breaker open after repeated failures. When false
	// every lookup reaches the collaborator.
	CircuitBreaker bool
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// tripAfter is the number of consecutive failures that opens an enabled breaker.
const tripAfter = 5

func newCircuit(name string, enabled bool) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return enabled && counts.ConsecutiveFailures > tripAfter
		},
	})
}

// getJSON performs a single GET through the circuit breaker and decodes the body into out.
// Network and status failures come back as *weather.TransportError, undecodable
// bodies as weather.ErrInvalidResponse.
func getJSON(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, op, rawURL string, out any) error {
	resp, err := doRequest(ctx, cfg, cb, rawURL)
	if err != nil {
		return &weather.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, weather.ErrInvalidResponse, err)
	}
	return nil
}

func doRequest(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, rawURL string) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Limiter != nil {
		if err := cfg.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		// Only collaborator-side failures count against the breaker.
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			discard(resp)
			return nil, errRateLimited
		case resp.StatusCode >= 500:
			discard(resp)
			return nil, errServerError
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		discard(resp)
		return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
	}
	return resp, nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
