package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lister/internal/logging"
)

var errControllerClosed = errors.New("fetch: rate controller closed")

// StatusError is returned for a final non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: GET %s: status %d", e.URL, e.Code)
}

// HTTPDriver GETs resources with retry/backoff on transport errors, 429 and
// 5xx. All requests of one driver share a rate Controller.
type HTTPDriver struct {
	cfg    Config
	client *http.Client
	rate   *Controller

	// sleep waits between attempts; replaced in tests.
	sleep func(context.Context, time.Duration) error
}

func (d *HTTPDriver) Configure(cfg Config) error {
	ApplyDefaults(&cfg)
	d.cfg = cfg
	if d.client == nil {
		d.client = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureTLS}, //nolint:gosec // opt-in
			},
		}
	}
	if d.rate != nil {
		d.rate.Close()
	}
	d.rate = NewController(cfg.Rate.Capacity, cfg.Rate.Refill, cfg.Rate.Interval)
	if d.sleep == nil {
		d.sleep = sleepCtx
	}
	return nil
}

func (d *HTTPDriver) Fetch(ctx context.Context, req Request) (string, error) {
	if req.URL == "" {
		return "", errors.New("fetch: url must not be empty")
	}
	attempts := d.cfg.Retry.MaxRetries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := backoff(d.cfg.Retry.InitialBackoff, attempt-1, d.cfg.Retry.MaxBackoff)
			logging.L().Warn("fetch: retrying", "url", req.URL, "attempt", attempt, "wait", wait, "err", lastErr)
			if err := d.sleep(ctx, wait); err != nil {
				return "", err
			}
		}
		if err := d.rate.Acquire(ctx); err != nil {
			return "", err
		}
		hr, err := d.newRequest(ctx, req)
		if err != nil {
			// nothing was sent
			d.rate.Release(1)
			return "", err
		}

		body, retry, err := d.do(ctx, hr)
		if err == nil {
			return body, nil
		}
		if !retry {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

func (d *HTTPDriver) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	hr, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	hr.Header.Set("User-Agent", d.cfg.UserAgent)
	for k, v := range req.Headers {
		hr.Header.Set(k, v)
	}
	return hr, nil
}

// do performs a single attempt and reports whether a failure is transient.
func (d *HTTPDriver) do(ctx context.Context, hr *http.Request) (string, bool, error) {
	url := hr.URL.String()
	resp, err := d.client.Do(hr)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, fmt.Errorf("fetch: GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return "", retryable(resp.StatusCode), &StatusError{URL: url, Code: resp.StatusCode}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, d.cfg.MaxBodyBytes+1))
	if err != nil {
		return "", true, fmt.Errorf("fetch: read body of %s: %w", url, err)
	}
	if int64(len(b)) > d.cfg.MaxBodyBytes {
		return "", false, fmt.Errorf("fetch: body of %s exceeds %d bytes", url, d.cfg.MaxBodyBytes)
	}
	return string(b), false, nil
}

func (d *HTTPDriver) Close() error {
	if d.rate != nil {
		d.rate.Close()
	}
	if d.client != nil {
		d.client.CloseIdleConnections()
	}
	return nil
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

// backoff returns initial*2^n clamped to max.
func backoff(initial time.Duration, n int, max time.Duration) time.Duration {
	d := initial << n
	if d <= 0 || d > max {
		return max
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
