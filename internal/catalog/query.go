package catalog

import (
	"sort"
	"strings"

	"github.com/angelmondragon/storefront/internal/facts"
	"github.com/shopspring/decimal"
)

const (
	CategoryAll = "all"

	StockAll = "all"
	StockIn  = "in"
	StockOut = "out"

	SortFeatured   = "featured"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRatingDesc = "rating_desc"
	SortNameAsc    = "name_asc"

	itemListLimit = 50
	relatedLimit  = 4
)

// QueryParams drives Query. Zero values mean "no constraint" except Sort,
// which falls back to featured.
type QueryParams struct {
	Text     string
	Category string
	Stock    string
	Sort     string
	PriceMax decimal.Decimal
}

// Normalized fills defaults and trims the search text.
func (q QueryParams) Normalized() QueryParams {
	q.Text = strings.TrimSpace(q.Text)
	if q.Category == "" {
		q.Category = CategoryAll
	}
	switch q.Stock {
	case StockIn, StockOut:
	default:
		q.Stock = StockAll
	}
	switch q.Sort {
	case SortPriceAsc, SortPriceDesc, SortRatingDesc, SortNameAsc:
	default:
		q.Sort = SortFeatured
	}
	if q.PriceMax.IsNegative() {
		q.PriceMax = decimal.Zero
	}
	return q
}

type Result struct {
	Products []Product
	Facts    []facts.Fact
	// Total is the size of the unfiltered catalog.
	Total int
}

// Query filters then stably sorts products. The input slice is not modified.
func Query(products []Product, params QueryParams) Result {
	params = params.Normalized()

	out := make([]Product, 0, len(products))
	needle := normalize(params.Text)
	for _, p := range products {
		if params.Text != "" && !strings.Contains(haystack(p), needle) {
			continue
		}
		if params.Category != CategoryAll && p.ItemCategory != params.Category {
			continue
		}
		if params.Stock == StockIn && !p.InStock {
			continue
		}
		if params.Stock == StockOut && p.InStock {
			continue
		}
		if params.PriceMax.IsPositive() && p.Price.GreaterThan(params.PriceMax) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, params.Sort)

	return Result{
		Products: out,
		Facts:    queryFacts(out, params),
		Total:    len(products),
	}
}

func queryFacts(shown []Product, params QueryParams) []facts.Fact {
	var fs []facts.Fact
	if params.Text != "" {
		fs = append(fs, facts.New(facts.Search, map[string]any{"search_term": params.Text}))
	}

	var priceMax any
	if params.PriceMax.IsPositive() {
		priceMax = params.PriceMax
	}
	fs = append(fs,
		facts.New(facts.FilterProducts, map[string]any{
			"category":  params.Category,
			"stock":     params.Stock,
			"price_max": priceMax,
		}),
		facts.New(facts.SortProducts, map[string]any{"sort_by": params.Sort}),
		facts.New(facts.ViewItemList, map[string]any{
			"item_list_name": facts.ListCatalogue,
			"items":          items(shown, itemListLimit),
		}),
	)
	return fs
}

func sortProducts(ps []Product, by string) {
	var less func(a, b Product) bool
	switch by {
	case SortPriceAsc:
		less = func(a, b Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRatingDesc:
		less = func(a, b Product) bool { return a.Rating > b.Rating }
	case SortNameAsc:
		coll := newFrenchCollator()
		less = func(a, b Product) bool { return coll.CompareString(a.ItemName, b.ItemName) < 0 }
	default:
		less = func(a, b Product) bool { return FeaturedScore(a) > FeaturedScore(b) }
	}
	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}

// FeaturedScore ranks products for the default sort.
func FeaturedScore(p Product) float64 {
	score := p.Rating * 10
	if p.Badge != "" {
		score += 10
	}
	reviews := p.Reviews
	if reviews > 300 {
		reviews = 300
	}
	return score + float64(reviews)/10
}

// Categories returns the distinct non-empty categories in French order.
func Categories(products []Product) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range products {
		if p.ItemCategory == "" {
			continue
		}
		if _, ok := seen[p.ItemCategory]; ok {
			continue
		}
		seen[p.ItemCategory] = struct{}{}
		out = append(out, p.ItemCategory)
	}
	coll := newFrenchCollator()
	sort.SliceStable(out, func(i, j int) bool { return coll.CompareString(out[i], out[j]) < 0 })
	return out
}

// Find returns the product with id or ErrProductNotFound.
func Find(products []Product, id string) (Product, error) {
	id = strings.TrimSpace(id)
	if id != "" {
		for _, p := range products {
			if p.ItemID == id {
				return p, nil
			}
		}
	}
	return Product{}, ErrProductNotFound
}

// Related returns up to four other products of the same category, in catalog order.
func Related(products []Product, current Product) []Product {
	var out []Product
	for _, p := range products {
		if len(out) == relatedLimit {
			break
		}
		if p.ItemID != current.ItemID && p.ItemCategory == current.ItemCategory {
			out = append(out, p)
		}
	}
	return out
}

// ViewItemFact reports a product detail view.
func ViewItemFact(p Product) facts.Fact {
	return facts.New(facts.ViewItem, map[string]any{
		"currency": p.CurrencyOrDefault(),
		"value":    p.Price,
		"items":    []facts.Item{p.Item()},
	})
}

// SelectItemFact reports a click on a product inside the named list.
func SelectItemFact(listName string, products ...Product) facts.Fact {
	return facts.New(facts.SelectItem, map[string]any{
		"item_list_name": listName,
		"items":          items(products, -1),
	})
}
