package scraper

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// DefaultElementID is the goldtraders.or.th span holding the bullion sell price.
const DefaultElementID = "DetailPlace_uc_goldprices1_lblBLSell"

const thousandsSeparator = ","

var (
	ErrElementNotFound = errors.New("price element not found")
	ErrNotNumeric      = errors.New("price text is not numeric")
)

// Extractor pulls the price out of a page. The element id is the only thing
// tying this service to the source page's markup.
type Extractor struct {
	elementID string
}

func NewExtractor(elementID string) *Extractor {
	if elementID == "" {
		elementID = DefaultElementID
	}
	return &Extractor{elementID: elementID}
}

// Extract returns the price found in the page, or false when the element is
// missing or its text is not a number.
func Extract(r io.Reader) (decimal.Decimal, bool) {
	return NewExtractor(DefaultElementID).Extract(r)
}

func (e *Extractor) Extract(r io.Reader) (decimal.Decimal, bool) {
	price, err := e.extract(r)
	return price, err == nil
}

func (e *Extractor) extract(r io.Reader) (decimal.Decimal, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse html: %w", err)
	}

	// Compared as an attribute so ids with selector metacharacters still match.
	sel := doc.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		return id == e.elementID
	}).First()
	if sel.Length() == 0 {
		return decimal.Zero, ErrElementNotFound
	}

	return ParsePrice(sel.Text())
}

// ParsePrice trims s, drops thousands separators and parses the rest as a
// decimal, e.g. "2,450.50" -> 2450.50.
func ParsePrice(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), thousandsSeparator, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrNotNumeric)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return d, nil
}
