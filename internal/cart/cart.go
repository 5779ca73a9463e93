// Package cart models the persisted shopping cart and its pure mutations.
package cart

import (
	"github.com/angelmondragon/storefront/internal/facts"
	"github.com/shopspring/decimal"
)

// Line is one product in the cart. Price is the snapshot taken when the
// product was first added.
type Line struct {
	ItemID       string          `json:"item_id"`
	ItemName     string          `json:"item_name"`
	ItemCategory string          `json:"item_category"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	Quantity     int             `json:"quantity"`
	Image        string          `json:"image"`
}

// Amount is price times quantity.
func (l Line) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Item returns the analytics item of l, quantity included.
func (l Line) Item() facts.Item {
	return facts.Item{
		ItemID:       l.ItemID,
		ItemName:     l.ItemName,
		ItemCategory: l.ItemCategory,
		Price:        l.Price,
		Quantity:     l.Quantity,
	}
}

// Cart holds at most one line per item id, in insertion order.
type Cart []Line

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

func (c Cart) index(id string) int {
	for i := range c {
		if c[i].ItemID == id {
			return i
		}
	}
	return -1
}

// Has reports whether c holds a line for id.
func (c Cart) Has(id string) bool { return c.index(id) >= 0 }

// Clone returns an independent copy of c.
func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Items returns the analytics items of every line.
func (c Cart) Items() []facts.Item {
	out := make([]facts.Item, 0, len(c))
	for _, l := range c {
		out = append(out, l.Item())
	}
	return out
}

// ItemCount sums quantities; it backs the header badge.
func ItemCount(c Cart) int {
	n := 0
	for _, l := range c {
		n += l.Quantity
	}
	return n
}
