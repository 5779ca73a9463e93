// Package pricing derives cart totals. Amounts are exact decimals and the
// currency is an opaque label.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	freeShippingThreshold = decimal.NewFromInt(25000)
	flatShipping          = decimal.NewFromInt(1500)
)

// Line is anything that contributes price times quantity to a subtotal.
type Line interface {
	Amount() decimal.Decimal
}

// Snapshot is derived on demand and never persisted on its own.
type Snapshot struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

func Subtotal[L Line](lines []L) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

// Shipping is free for an empty cart and from 25000 up, 1500 otherwise.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() || subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		return decimal.Zero
	}
	return flatShipping
}

func Compute[L Line](lines []L) Snapshot {
	sub := Subtotal(lines)
	ship := Shipping(sub)
	return Snapshot{Subtotal: sub, Shipping: ship, Total: sub.Add(ship)}
}

// FormatXOF renders an amount the way the shop displays it, e.g. "12 000 FCFA".
func FormatXOF(v decimal.Decimal) string {
	p := message.NewPrinter(language.French)
	s := p.Sprint(number.Decimal(v.InexactFloat64(), number.MaxFractionDigits(2)))
	// CLDR groups French digits with narrow or regular no-break spaces.
	s = strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(s)
	return s + " FCFA"
}
