package validators

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/shopspring/decimal"
)

const maxQueryTextLen = 200

// ParseProductQuery reads the catalog listing parameters. Unknown values fall
// back to their defaults instead of failing the request.
func ParseProductQuery(r *http.Request) storefront.ProductQuery {
	q := r.URL.Query()
	params := catalog.QueryParams{
		Text:     SanitizeString(q.Get("q"), maxQueryTextLen),
		Category: SanitizeString(q.Get("category"), maxQueryTextLen),
		Stock:    strings.ToLower(SanitizeString(q.Get("stock"), 8)),
		Sort:     strings.ToLower(SanitizeString(q.Get("sort"), 16)),
		PriceMax: ParsePriceMax(q.Get("price_max")),
	}
	return storefront.ProductQuery{
		QueryParams: params.Normalized(),
		Promo:       SanitizeString(q.Get("promo"), 64),
	}
}

// ParsePriceMax returns 0 (unbounded) for missing, invalid or non-positive input.
func ParsePriceMax(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !d.IsPositive() {
		return decimal.Zero
	}
	return d
}

// ParseQuantity reads a JSON number or numeric string. Missing or invalid
// input is 1; fractional input is truncated.
func ParseQuantity(raw json.RawMessage) int {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return 1
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	n := int(f)
	if n < 1 {
		return 1
	}
	return n
}
