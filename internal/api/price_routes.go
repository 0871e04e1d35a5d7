package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kjannette/gold-scraper/internal/models"
)

const scrapeFailureMessage = "Failed to scrape data or data is invalid."

type scrapeSuccess struct {
	Status string      `json:"status"`
	ID     int64       `json:"id"`
	Price  json.Number `json:"price"`
	Date   string      `json:"date"`
}

type scrapeFailure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type priceJSON struct {
	ID    int64       `json:"id"`
	Price json.Number `json:"price"`
	Date  string      `json:"date"`
}

// toPriceJSON renders the price as a JSON number with two decimals.
func toPriceJSON(p *models.GoldPrice) priceJSON {
	return priceJSON{
		ID:    p.ID,
		Price: json.Number(p.Price.StringFixed(2)),
		Date:  p.Date.UTC().Format(time.RFC3339Nano),
	}
}

func (s *Server) handleScrapeGold(w http.ResponseWriter, r *http.Request) {
	rec, scraped, err := s.ingest.Run(r.Context())
	if err != nil {
		s.log.Error("scrape failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to scrape and store gold price")
		return
	}
	if !scraped {
		writeJSON(w, http.StatusOK, scrapeFailure{Status: "failure", Message: scrapeFailureMessage})
		return
	}

	p := toPriceJSON(rec)
	writeJSON(w, http.StatusOK, scrapeSuccess{
		Status: "success",
		ID:     p.ID,
		Price:  p.Price,
		Date:   p.Date,
	})
}

func (s *Server) handleLatestPrice(w http.ResponseWriter, r *http.Request) {
	price, err := s.priceRepo.GetLatest(r.Context())
	if err != nil {
		s.log.Error("error fetching latest price", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch latest price")
		return
	}
	if price == nil {
		writeError(w, http.StatusNotFound, "no price data available")
		return
	}
	writeJSON(w, http.StatusOK, toPriceJSON(price))
}

func (s *Server) handleListPrices(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, defaultQueryLimit)
	prices, err := s.priceRepo.List(r.Context(), limit)
	if err != nil {
		s.log.Error("error listing prices", zap.Int("limit", limit), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch prices")
		return
	}

	out := make([]priceJSON, len(prices))
	for i := range prices {
		out[i] = toPriceJSON(&prices[i])
	}
	writeJSON(w, http.StatusOK, out)
}
