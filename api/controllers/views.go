package controllers

import (
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/pricing"
	"github.com/angelmondragon/storefront/internal/storefront"
)

type productView struct {
	catalog.Product
	PriceDisplay string `json:"price_display"`
}

func newProductView(p catalog.Product) productView {
	return productView{Product: p, PriceDisplay: pricing.FormatXOF(p.Price)}
}

func newProductViews(ps []catalog.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, newProductView(p))
	}
	return out
}

type productPage struct {
	Products   []productView `json:"products"`
	Categories []string      `json:"categories"`
	Total      int           `json:"total"`
	Shown      int           `json:"shown"`
}

type productDetail struct {
	Product productView   `json:"product"`
	Related []productView `json:"related"`
}

type totalsDisplay struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

func newTotalsDisplay(s pricing.Snapshot) totalsDisplay {
	return totalsDisplay{
		Subtotal: pricing.FormatXOF(s.Subtotal),
		Shipping: pricing.FormatXOF(s.Shipping),
		Total:    pricing.FormatXOF(s.Total),
	}
}

type cartView struct {
	storefront.CartView
	Display totalsDisplay `json:"display"`
}

func newCartView(v storefront.CartView) cartView {
	return cartView{CartView: v, Display: newTotalsDisplay(v.Totals)}
}

type placementView struct {
	Order    checkout.Order `json:"order"`
	Redirect string         `json:"redirect"`
	Display  totalsDisplay  `json:"display"`
}

type orderView struct {
	checkout.Order
	Display totalsDisplay `json:"display"`
}

func orderTotals(o checkout.Order) totalsDisplay {
	return newTotalsDisplay(pricing.Snapshot{Subtotal: o.Subtotal, Shipping: o.Shipping, Total: o.Value})
}
