package btc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// errRateLimited wraps limiter failures. The limiter only fails when the
// context cannot accommodate the wait, so another attempt cannot succeed.
var errRateLimited = errors.New("rate limited")

const (
	DefaultTimeout      = 15 * time.Second
	DefaultRetryBackoff = 500 * time.Millisecond
)

// Getter fetches a URL and returns the response body. Connection failures
// and non-2xx responses must be returned as errors.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// TransportConfig holds the HTTP policy. The client itself never retries or
// throttles; only the transport does.
type TransportConfig struct {
	// Timeout applies per attempt. Ignored when Client is set.
	Timeout time.Duration
	// Retries is the number of extra attempts after connection errors and
	// 5xx responses.
	Retries int
	// RetryBackoff is the first delay between attempts; it doubles each time.
	RetryBackoff time.Duration
	// RequestsPerMinute enables a client side limiter when > 0.
	RequestsPerMinute int
	Burst             int
	Client            *http.Client
}

// HTTPTransport is the default Getter.
type HTTPTransport struct {
	client  *http.Client
	retries int
	backoff time.Duration
	limiter *rate.Limiter
}

func NewHTTPTransport(cfg TransportConfig) *HTTPTransport {
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}
	t := &HTTPTransport{
		client:  client,
		retries: max(cfg.Retries, 0),
		backoff: backoff,
	}
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), burst)
	}
	return t
}

func (t *HTTPTransport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	wait := t.backoff
	for attempt := 0; ; attempt++ {
		body, err := t.get(ctx, rawURL)
		if err == nil || attempt >= t.retries || ctx.Err() != nil || !retryable(err) {
			return body, err
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Join(ctx.Err(), err)
		case <-timer.C:
		}
		wait *= 2
	}
}

func (t *HTTPTransport) get(ctx context.Context, rawURL string) ([]byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", errRateLimited, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, redactError(err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return nil, redactError(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: body}
	}
	return body, nil
}

// retryable reports whether another attempt may succeed. 4xx responses and
// limiter refusals are final.
func retryable(err error) bool {
	if errors.Is(err, errRateLimited) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	return true
}

// redactError strips passwords from the URL net/http puts into its errors.
func redactError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = redactURL(ue.URL)
	}
	return err
}
