// Package facts holds the analytics facts produced by the storefront core.
// Facts are plain data; dispatching them is the caller's job.
package facts

import "github.com/shopspring/decimal"

// Event names.
const (
	AddToCart        = "add_to_cart"
	RemoveFromCart   = "remove_from_cart"
	ViewCart         = "view_cart"
	BeginCheckout    = "begin_checkout"
	AddShippingInfo  = "add_shipping_info"
	AddPaymentInfo   = "add_payment_info"
	Purchase         = "purchase"
	Search           = "search"
	FilterProducts   = "filter_products"
	SortProducts     = "sort_products"
	ViewItemList     = "view_item_list"
	ViewItem         = "view_item"
	SelectItem       = "select_item"
	SelectPromotion  = "select_promotion"
	ViewPromotion    = "view_promotion"
	PageViewCustom   = "page_view_custom"
	DebugModeEnabled = "debug_mode_enabled"
)

// List names carried by view_item_list and select_item.
const (
	ListCatalogue = "Catalogue"
	ListRelated   = "Produits similaires"
	ListFeatured  = "Sélection du moment"
)

// Fact is one analytics event with its properties.
type Fact struct {
	Name  string         `json:"name"`
	Props map[string]any `json:"props"`
}

func New(name string, props map[string]any) Fact {
	if props == nil {
		props = map[string]any{}
	}
	return Fact{Name: name, Props: props}
}

// Item is the analytics view of a product or cart line.
type Item struct {
	ItemID        string          `json:"item_id"`
	ItemName      string          `json:"item_name"`
	ItemCategory  string          `json:"item_category"`
	ItemCategory2 string          `json:"item_category2,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity,omitempty"`
}

type Promotion struct {
	PromotionID   string `json:"promotion_id"`
	PromotionName string `json:"promotion_name"`
}

// Names returns the fact names in order.
func Names(fs []Fact) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}
