package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kjannette/gold-scraper/internal/httputil"
)

// DefaultSourceURL is the Gold Traders Association home page.
const DefaultSourceURL = "https://www.goldtraders.or.th/"

type Options struct {
	SourceURL   string
	ElementID   string
	MaxAttempts int
	// HTTPClient defaults to a client with no timeout of its own; the
	// caller's context bounds the request.
	HTTPClient *http.Client
}

type Fetcher struct {
	sourceURL  string
	extractor  *Extractor
	httpClient *http.Client
	retry      httputil.RetryConfig
	log        *zap.Logger
}

func NewFetcher(opts Options, log *zap.Logger) *Fetcher {
	if opts.SourceURL == "" {
		opts.SourceURL = DefaultSourceURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	retry := httputil.NoRetry
	if opts.MaxAttempts > 1 {
		retry = httputil.RetryConfig{
			MaxAttempts: opts.MaxAttempts,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		sourceURL:  opts.SourceURL,
		extractor:  NewExtractor(opts.ElementID),
		httpClient: opts.HTTPClient,
		retry:      retry,
		log:        log.With(zap.String("component", "fetcher")),
	}
}

// Fetch GETs the source page and extracts the price. A non-200 status, a
// missing element or non-numeric text give ok == false with a nil error;
// only transport failures are returned as errors.
func (f *Fetcher) Fetch(ctx context.Context) (price decimal.Decimal, ok bool, err error) {
	resp, err := httputil.Do(ctx, f.httpClient, f.retry, f.log, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, f.sourceURL, nil)
	})
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.log.Warn("source returned non-success status",
			zap.String("url", f.sourceURL),
			zap.Int("status", resp.StatusCode),
		)
		return decimal.Zero, false, nil
	}

	price, err = f.extractor.extract(resp.Body)
	if err != nil {
		f.log.Warn("no price in source page", zap.String("url", f.sourceURL), zap.Error(err))
		return decimal.Zero, false, nil
	}

	f.log.Debug("price scraped", zap.String("price", price.String()))
	return price, true, nil
}
