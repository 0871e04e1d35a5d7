package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/kjannette/gold-scraper/internal/models"
)

// The table name is mixed case, so it is always quoted.
const createGoldPriceTable = `
CREATE TABLE IF NOT EXISTS "Gold_goldprice" (
    id         SERIAL PRIMARY KEY,
    date       TIMESTAMP NOT NULL,
    gold_price NUMERIC(10, 2) NOT NULL
);
CREATE INDEX IF NOT EXISTS "ix_Gold_goldprice_id" ON "Gold_goldprice" (id);`

// DB is the subset of *pgxpool.Pool the repo needs. Begin acquires a pooled
// connection that is released on Commit or Rollback.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type GoldPriceRepo struct {
	db DB
}

func NewGoldPriceRepo(db DB) *GoldPriceRepo {
	return &GoldPriceRepo{db: db}
}

func (r *GoldPriceRepo) EnsureTable(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createGoldPriceTable); err != nil {
		return fmt.Errorf("create gold price table: %w", err)
	}
	return nil
}

// Record inserts one row in its own transaction and returns the row as
// stored. On any failure the transaction is rolled back and a *StorageError
// is returned; the connection goes back to the pool on every path.
func (r *GoldPriceRepo) Record(ctx context.Context, price decimal.Decimal, ts time.Time) (*models.GoldPrice, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, &StorageError{Op: "begin", Err: err}
	}

	committed := false
	defer func() {
		if !committed {
			// Detached so a cancelled request still releases the connection.
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	row := tx.QueryRow(ctx,
		`INSERT INTO "Gold_goldprice" (date, gold_price)
		 VALUES ($1, $2::numeric)
		 RETURNING id, date, gold_price::text`,
		ts, price.String(),
	)
	p, err := scanPrice(row)
	if err != nil {
		return nil, &StorageError{Op: "insert", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &StorageError{Op: "commit", Err: err}
	}
	committed = true
	return p, nil
}

func (r *GoldPriceRepo) GetLatest(ctx context.Context) (*models.GoldPrice, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, date, gold_price::text FROM "Gold_goldprice" ORDER BY id DESC LIMIT 1`,
	)
	p, err := scanPrice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// List returns up to limit records, newest first.
func (r *GoldPriceRepo) List(ctx context.Context, limit int) ([]models.GoldPrice, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, date, gold_price::text FROM "Gold_goldprice" ORDER BY id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPrices(rows)
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanPrice(row scannable) (*models.GoldPrice, error) {
	var p models.GoldPrice
	var price string
	if err := row.Scan(&p.ID, &p.Date, &price); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("decode gold_price %q: %w", price, err)
	}
	p.Price = d
	return &p, nil
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectPrices(rows rowsIter) ([]models.GoldPrice, error) {
	var out []models.GoldPrice
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
