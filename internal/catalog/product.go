// Package catalog loads the product list and runs the search, filter and sort
// pipeline over it.
package catalog

import (
	"errors"

	"github.com/angelmondragon/storefront/internal/facts"
	"github.com/shopspring/decimal"
)

// DefaultCurrency applies to products and cart lines without a currency.
const DefaultCurrency = "XOF"

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrProductNotFound    = errors.New("product not found")
)

func init() {
	// Prices travel as JSON numbers in slots, facts and API responses.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ItemID        string          `json:"item_id"`
	ItemName      string          `json:"item_name"`
	ItemCategory  string          `json:"item_category"`
	ItemCategory2 string          `json:"item_category2,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency,omitempty"`
	InStock       bool            `json:"in_stock"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
	Badge         string          `json:"badge,omitempty"`
	Image         string          `json:"image,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Description   string          `json:"description,omitempty"`
}

// CurrencyOrDefault returns the product currency, XOF when unset.
func (p Product) CurrencyOrDefault() string {
	if p.Currency == "" {
		return DefaultCurrency
	}
	return p.Currency
}

// Item returns the analytics item of p, without quantity.
func (p Product) Item() facts.Item {
	return facts.Item{
		ItemID:        p.ItemID,
		ItemName:      p.ItemName,
		ItemCategory:  p.ItemCategory,
		ItemCategory2: p.ItemCategory2,
		Price:         p.Price,
	}
}

func items(products []Product, limit int) []facts.Item {
	if limit >= 0 && len(products) > limit {
		products = products[:limit]
	}
	out := make([]facts.Item, 0, len(products))
	for _, p := range products {
		out = append(out, p.Item())
	}
	return out
}

// sanitize repairs values the pipeline relies on.
func sanitize(products []Product) []Product {
	for i := range products {
		if products[i].Price.IsNegative() {
			products[i].Price = decimal.Zero
		}
		if products[i].Reviews < 0 {
			products[i].Reviews = 0
		}
	}
	return products
}
