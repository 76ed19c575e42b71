package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/ShopHub/pkg/httpclient"
)

// ratesResponse is the body served by the rates endpoint, for example
// {"base":"INR","rates":{"USD":0.0109,"EUR":0.0093}}.
type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Fetcher performs GET requests. *httpclient.CircuitBreakerClient satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Refresher periodically pulls rates from a remote endpoint into a
// Converter. When the endpoint fails the previous rates stay in place.
type Refresher struct {
	fetcher   Fetcher
	url       string
	converter *Converter
	interval  time.Duration
	logger    *slog.Logger
}

// NewRefresher creates a refresher for url.
func NewRefresher(fetcher Fetcher, url string, conv *Converter, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Refresher{
		fetcher:   fetcher,
		url:       url,
		converter: conv,
		interval:  interval,
		logger:    logger,
	}
}

// Refresh fetches the rates once and applies them.
func (r *Refresher) Refresh(ctx context.Context) error {
	resp, err := r.fetcher.Get(ctx, r.url)
	if err != nil {
		return fmt.Errorf("fetch rates: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "rates")
	}
	defer func() { _ = resp.Body.Close() }()

	var body ratesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return fmt.Errorf("decode rates: %w", err)
	}
	if body.Base != "" && body.Base != BaseCurrency {
		return fmt.Errorf("rates base %q, want %s", body.Base, BaseCurrency)
	}

	updated := r.converter.UpdateRates(body.Rates)
	r.logger.InfoContext(ctx, "currency rates refreshed",
		slog.Int("updated", updated),
		slog.String("url", r.url),
	)
	return nil
}

// Run refreshes immediately and then on every interval until ctx is
// canceled. Failures are logged.
func (r *Refresher) Run(ctx context.Context) {
	r.refreshLogged(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshLogged(ctx)
		}
	}
}

func (r *Refresher) refreshLogged(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
		r.logger.WarnContext(ctx, "currency rate refresh failed, keeping previous rates",
			slog.String("error", err.Error()),
		)
	}
}
