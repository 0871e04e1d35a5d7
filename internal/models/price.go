package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoldPrice is one stored scrape: the bullion sell price and when it was recorded.
type GoldPrice struct {
	ID    int64           `json:"id"`
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}
