package cart

import (
	"math"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/facts"
	"github.com/angelmondragon/storefront/internal/pricing"
	"github.com/shopspring/decimal"
)

// ViewCurrency labels cart-wide facts.
const ViewCurrency = catalog.DefaultCurrency

// MaxQuantity caps a single line.
const MaxQuantity = math.MaxInt32

func clampQuantity(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxQuantity:
		return MaxQuantity
	}
	return n
}

// Add merges qty of p into c. An existing line keeps its name, category and
// price snapshot; only its quantity grows.
func Add(c Cart, p catalog.Product, qty int) (Cart, []facts.Fact) {
	qty = clampQuantity(qty)
	out := c.Clone()

	if i := out.index(p.ItemID); i >= 0 {
		out[i].Quantity = clampQuantity(out[i].Quantity + qty)
	} else {
		out = append(out, Line{
			ItemID:       p.ItemID,
			ItemName:     p.ItemName,
			ItemCategory: p.ItemCategory,
			Price:        p.Price,
			Currency:     p.CurrencyOrDefault(),
			Quantity:     qty,
			Image:        p.Image,
		})
	}

	item := p.Item()
	item.Quantity = qty
	fact := facts.New(facts.AddToCart, map[string]any{
		"currency": p.CurrencyOrDefault(),
		"value":    p.Price.Mul(decimal.NewFromInt(int64(qty))),
		"items":    []facts.Item{item},
	})
	return out, []facts.Fact{fact}
}

// SetQuantity overwrites the quantity of line id, clamped to 1. Unknown ids
// leave the cart unchanged.
func SetQuantity(c Cart, id string, n int) Cart {
	out := c.Clone()
	if i := out.index(id); i >= 0 {
		out[i].Quantity = clampQuantity(n)
	}
	return out
}

// Remove deletes line id and reports the removed amount. Unknown ids yield
// the unchanged cart and no fact.
func Remove(c Cart, id string) (Cart, []facts.Fact) {
	i := c.index(id)
	if i < 0 {
		return c.Clone(), nil
	}
	removed := c[i]

	out := make(Cart, 0, len(c)-1)
	out = append(out, c[:i]...)
	out = append(out, c[i+1:]...)

	currency := removed.Currency
	if currency == "" {
		currency = catalog.DefaultCurrency
	}
	fact := facts.New(facts.RemoveFromCart, map[string]any{
		"currency": currency,
		"value":    removed.Amount(),
		"items":    []facts.Item{removed.Item()},
	})
	return out, []facts.Fact{fact}
}

// View reports the whole cart with its subtotal.
func View(c Cart) facts.Fact {
	return Summary(facts.ViewCart, c)
}

// Summary builds a cart-wide fact (view_cart, begin_checkout ...) carrying the
// subtotal and every line.
func Summary(name string, c Cart) facts.Fact {
	return facts.New(name, map[string]any{
		"currency": ViewCurrency,
		"value":    pricing.Subtotal(c),
		"items":    c.Items(),
	})
}
