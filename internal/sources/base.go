package sources

import (
	"context"
	"fmt"
	"time"

	svcmetrics "TrustTrace/internal/service/metrics"
	"TrustTrace/internal/service/ratelimit"
	"TrustTrace/pkg/config"
	xhttp "TrustTrace/pkg/http"
)

const defaultSourceTimeout = 10 * time.Second

// httpBase provides a DRY foundation for the provider adapters. It centralizes
// client construction, JSON request handling, and per-provider rate limiting.
type httpBase struct {
	name      string
	baseURL   string
	apiKey    string
	userAgent string
	client    *xhttp.Client
	limiter   *ratelimit.Limiter
	rateQPS   float64
	burst     float64
}

func newHTTPBase(name string, cfg config.SourceConfig, limiter *ratelimit.Limiter) httpBase {
	svcmetrics.Register()
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	return httpBase{
		name:      name,
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		client:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter:   limiter,
		rateQPS:   cfg.RateQPS,
		burst:     cfg.Burst,
	}
}

// throttle blocks until a token is available for this provider. A provider
// without a configured rate is never throttled.
func (b *httpBase) throttle(ctx context.Context) error {
	if b.limiter == nil || b.rateQPS <= 0 {
		return nil
	}
	burst := b.burst
	if burst <= 0 {
		burst = b.rateQPS
	}
	for {
		if b.limiter.Allow(b.name, burst, b.rateQPS) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// getJSON issues a rate-limited GET under baseURL and decodes JSON into dest.
func (b *httpBase) getJSON(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("%s source not configured", b.name)
	}
	if err := b.throttle(ctx); err != nil {
		return err
	}
	start := time.Now()
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         b.baseURL + path,
		Headers:     b.headers(),
		QueryParams: query,
	}, dest)
	svcmetrics.SourceLatency.WithLabelValues(b.name).Observe(time.Since(start).Seconds())
	if err != nil {
		svcmetrics.SourceErrors.WithLabelValues(b.name).Inc()
		return fmt.Errorf("%s get %s: %w", b.name, path, err)
	}
	return nil
}

// postJSONWithHeaders issues a rate-limited JSON POST under baseURL with
// extra headers and decodes into dest.
func (b *httpBase) postJSONWithHeaders(ctx context.Context, path string, payload interface{}, dest interface{}, extra map[string]string) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("%s source not configured", b.name)
	}
	if err := b.throttle(ctx); err != nil {
		return err
	}
	headers := b.headers()
	headers["Content-Type"] = "application/json"
	for k, v := range extra {
		headers[k] = v
	}
	start := time.Now()
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     b.baseURL + path,
		Headers: headers,
		Body:    payload,
	}, dest)
	svcmetrics.SourceLatency.WithLabelValues(b.name).Observe(time.Since(start).Seconds())
	if err != nil {
		svcmetrics.SourceErrors.WithLabelValues(b.name).Inc()
		return fmt.Errorf("%s post %s: %w", b.name, path, err)
	}
	return nil
}

func (b *httpBase) headers() map[string]string {
	h := map[string]string{"Accept": "application/json"}
	if b.userAgent != "" {
		h["User-Agent"] = b.userAgent
	}
	return h
}
