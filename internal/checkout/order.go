// Package checkout turns a cart into an immutable order snapshot and keeps the
// last order of a session.
package checkout

import (
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/facts"
	"github.com/angelmondragon/storefront/internal/pricing"
	"github.com/shopspring/decimal"
)

const (
	DefaultShippingTier = "standard"
	DefaultPaymentType  = "mobile_money"
	SuccessPage         = "success.html"
	ShopPage            = "shop.html"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("no order found")
	ErrOrderNotSaved = errors.New("order was not persisted")
)

// Order is the immutable record of a simulated purchase.
type Order struct {
	TransactionID string          `json:"transaction_id"`
	Currency      string          `json:"currency"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Value         decimal.Decimal `json:"value"`
	Coupon        *string         `json:"coupon"`
	PaymentType   string          `json:"payment_type"`
	ShippingTier  string          `json:"shipping_tier"`
	Items         cart.Cart       `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Finalize snapshots c into an Order with the given transaction id.
func Finalize(c cart.Cart, shippingTier, paymentType, coupon, id string) (Order, error) {
	if c.IsEmpty() {
		return Order{}, ErrEmptyCart
	}
	snap := pricing.Compute(c)

	order := Order{
		TransactionID: id,
		Currency:      catalog.DefaultCurrency,
		Subtotal:      snap.Subtotal,
		Shipping:      snap.Shipping,
		Value:         snap.Total,
		Coupon:        normalizeCoupon(coupon),
		PaymentType:   orDefault(paymentType, DefaultPaymentType),
		ShippingTier:  orDefault(shippingTier, DefaultShippingTier),
		Items:         c.Clone(),
	}
	return order, nil
}

// Redirect is the success page location carrying the order id.
func (o Order) Redirect() string {
	return SuccessPage + "?order=" + o.TransactionID
}

// PurchaseFact reports the completed order.
func (o Order) PurchaseFact() facts.Fact {
	props := map[string]any{
		"transaction_id": o.TransactionID,
		"currency":       orDefault(o.Currency, catalog.DefaultCurrency),
		"value":          o.Value,
		"shipping":       o.Shipping,
		"items":          o.Items.Items(),
	}
	if o.Coupon != nil {
		props["coupon"] = *o.Coupon
	}
	if o.PaymentType != "" {
		props["payment_type"] = o.PaymentType
	}
	return facts.New(facts.Purchase, props)
}

func normalizeCoupon(coupon string) *string {
	coupon = strings.TrimSpace(coupon)
	if coupon == "" {
		return nil
	}
	return &coupon
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// ShippingFact is add_shipping_info for c.
func ShippingFact(c cart.Cart, tier string) facts.Fact {
	f := cart.Summary(facts.AddShippingInfo, c)
	f.Props["shipping_tier"] = orDefault(tier, DefaultShippingTier)
	return f
}

// PaymentFact is add_payment_info for c. An empty coupon is left out.
func PaymentFact(c cart.Cart, paymentType, coupon string) facts.Fact {
	f := cart.Summary(facts.AddPaymentInfo, c)
	f.Props["payment_type"] = orDefault(paymentType, DefaultPaymentType)
	if cp := normalizeCoupon(coupon); cp != nil {
		f.Props["coupon"] = *cp
	}
	return f
}
