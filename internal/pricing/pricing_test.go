package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

type line struct {
	price string
	qty   int64
}

func (l line) Amount() decimal.Decimal {
	return decimal.RequireFromString(l.price).Mul(decimal.NewFromInt(l.qty))
}

func TestSubtotal(t *testing.T) {
	if got := Subtotal([]line{}); !got.IsZero() {
		t.Fatalf("empty subtotal should be zero, got %s", got)
	}
	got := Subtotal([]line{{"12000", 2}, {"0.10", 3}, {"0.20", 1}})
	if !got.Equal(decimal.RequireFromString("24000.50")) {
		t.Fatalf("unexpected subtotal %s", got)
	}
}

func TestShippingThresholds(t *testing.T) {
	tests := []struct {
		subtotal string
		want     int64
	}{
		{"0", 0},
		{"1", 1500},
		{"24999.99", 1500},
		{"25000", 0},
		{"25000.01", 0},
		{"90000", 0},
	}
	for _, tt := range tests {
		got := Shipping(decimal.RequireFromString(tt.subtotal))
		if !got.Equal(decimal.NewFromInt(tt.want)) {
			t.Fatalf("shipping(%s): expected %d, got %s", tt.subtotal, tt.want, got)
		}
	}
}

func TestComputeTotalIsSubtotalPlusShipping(t *testing.T) {
	cases := [][]line{
		nil,
		{{"6500", 1}},
		{{"12000", 1}, {"6500", 2}},
		{{"18500", 2}},
	}
	for _, lines := range cases {
		s := Compute(lines)
		if !s.Total.Equal(s.Subtotal.Add(s.Shipping)) {
			t.Fatalf("total %s != subtotal %s + shipping %s", s.Total, s.Subtotal, s.Shipping)
		}
		if s.Subtotal.IsZero() && !s.Shipping.IsZero() {
			t.Fatalf("empty cart must ship free")
		}
	}

	s := Compute([]line{{"12000", 1}, {"6500", 2}})
	if !s.Subtotal.Equal(decimal.NewFromInt(25000)) || !s.Shipping.IsZero() || !s.Total.Equal(decimal.NewFromInt(25000)) {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}

func TestFormatXOF(t *testing.T) {
	if got := FormatXOF(decimal.NewFromInt(12000)); got != "12 000 FCFA" {
		t.Fatalf("unexpected format %q", got)
	}
	if got := FormatXOF(decimal.Zero); got != "0 FCFA" {
		t.Fatalf("unexpected format %q", got)
	}
}
