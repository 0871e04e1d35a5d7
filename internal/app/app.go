package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kjannette/gold-scraper/internal/api"
	"github.com/kjannette/gold-scraper/internal/clock"
	"github.com/kjannette/gold-scraper/internal/config"
	"github.com/kjannette/gold-scraper/internal/db"
	"github.com/kjannette/gold-scraper/internal/ingest"
	"github.com/kjannette/gold-scraper/internal/notifications"
	"github.com/kjannette/gold-scraper/internal/repository"
	"github.com/kjannette/gold-scraper/internal/scraper"
)

// App is the wired service shared by the long-running server and the
// Lambda entry point.
type App struct {
	Pool   *pgxpool.Pool
	Server *api.Server
}

// New connects to the store, creates the price table if absent and builds
// the HTTP server. The caller owns Close.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	pool, err := db.Connect(cfg.DatabaseURL, db.PoolOptions{MaxConns: cfg.DBMaxConns})
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	log.Info("database connected")

	priceRepo := repository.NewGoldPriceRepo(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := priceRepo.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	fetcher := scraper.NewFetcher(scraper.Options{
		SourceURL:   cfg.SourceURL,
		ElementID:   cfg.ElementID,
		MaxAttempts: cfg.FetchMaxAttempts,
	}, log)
	svc := ingest.NewService(fetcher, priceRepo, notifierFor(cfg, log), clock.NewRealClock(), log)

	return &App{
		Pool:   pool,
		Server: api.NewServer(pool, svc, log, cfg.Port, cfg.CORSAllowOrigin),
	}, nil
}

// notifierFor returns nil when no webhook is configured, so the ingest
// service skips notification entirely.
func notifierFor(cfg *config.Config, log *zap.Logger) ingest.Notifier {
	sender := notifications.NewSender(cfg.WebhookURL, cfg.NotifyName, log)
	if !sender.Enabled() {
		return nil
	}
	return sender
}

func (a *App) Close() {
	a.Pool.Close()
}
