package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kjannette/gold-scraper/internal/clock"
	"github.com/kjannette/gold-scraper/internal/models"
)

type Fetcher interface {
	Fetch(ctx context.Context) (decimal.Decimal, bool, error)
}

type Recorder interface {
	Record(ctx context.Context, price decimal.Decimal, ts time.Time) (*models.GoldPrice, error)
}

type Notifier interface {
	Send(ctx context.Context, msg string)
}

// Service runs one scrape-then-store cycle per call. It holds no mutable
// state, so one instance serves concurrent requests.
type Service struct {
	fetcher  Fetcher
	recorder Recorder
	notifier Notifier
	clock    clock.Clock
	log      *zap.Logger
}

func NewService(f Fetcher, r Recorder, n Notifier, clk clock.Clock, log *zap.Logger) *Service {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		fetcher:  f,
		recorder: r,
		notifier: n,
		clock:    clk,
		log:      log.With(zap.String("component", "ingest")),
	}
}

// Run fetches the current price and, if one was found, stores it stamped
// with the processing time. scraped is false when the source had no usable
// price; that is not an error. Storage and transport errors are returned.
func (s *Service) Run(ctx context.Context) (rec *models.GoldPrice, scraped bool, err error) {
	price, ok, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	// Postgres keeps microseconds; truncating here makes the returned
	// timestamp match the stored one.
	now := s.clock.Now().UTC().Truncate(time.Microsecond)

	rec, err = s.recorder.Record(ctx, price, now)
	if err != nil {
		s.log.Error("error storing price", zap.String("price", price.String()), zap.Error(err))
		return nil, true, fmt.Errorf("record price: %w", err)
	}

	s.log.Info("stored price",
		zap.Int64("id", rec.ID),
		zap.String("price", rec.Price.StringFixed(2)),
		zap.Time("date", rec.Date),
	)
	if s.notifier != nil {
		s.notifier.Send(ctx, fmt.Sprintf("stored gold price %s (id=%d)", rec.Price.StringFixed(2), rec.ID))
	}
	return rec, true, nil
}
