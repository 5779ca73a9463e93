package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/facts"
	"github.com/angelmondragon/storefront/internal/pricing"
	"github.com/angelmondragon/storefront/pkg/clock"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type cartStore interface {
	Load(ctx context.Context, scope string) cart.Cart
	Clear(ctx context.Context, scope string) error
}

type idGenerator interface {
	Next() string
}

// PaymentInput carries the choices of the payment step.
type PaymentInput struct {
	ShippingTier string
	PaymentType  string
	Coupon       string
}

// Summary is the checkout recap of the current cart.
type Summary struct {
	Cart   cart.Cart
	Totals pricing.Snapshot
}

// Placement is the result of a placed order.
type Placement struct {
	Order    Order
	Redirect string
}

// Service runs the simulated checkout steps. Every step re-reads the cart.
type Service interface {
	Begin(ctx context.Context, scope string) (Summary, facts.Fact, error)
	Shipping(ctx context.Context, scope, tier string) (Summary, facts.Fact, error)
	PlaceOrder(ctx context.Context, scope string, in PaymentInput) (Placement, []facts.Fact, error)
	Confirm(ctx context.Context, scope, orderHint string) (Order, facts.Fact, error)
}

type service struct {
	carts  cartStore
	orders *OrderStore
	ids    idGenerator
	clock  clock.Clock
	logg   *logger.Logger
}

func NewService(carts cartStore, orders *OrderStore, ids idGenerator, clk clock.Clock, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id generator required")
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{carts: carts, orders: orders, ids: ids, clock: clk, logg: logg}, nil
}

func (s *service) summary(ctx context.Context, scope string) (Summary, error) {
	c := s.carts.Load(ctx, scope)
	if c.IsEmpty() {
		return Summary{}, ErrEmptyCart
	}
	return Summary{Cart: c, Totals: pricing.Compute(c)}, nil
}

func (s *service) Begin(ctx context.Context, scope string) (Summary, facts.Fact, error) {
	sum, err := s.summary(ctx, scope)
	if err != nil {
		return Summary{}, facts.Fact{}, err
	}
	return sum, cart.Summary(facts.BeginCheckout, sum.Cart), nil
}

func (s *service) Shipping(ctx context.Context, scope, tier string) (Summary, facts.Fact, error) {
	sum, err := s.summary(ctx, scope)
	if err != nil {
		return Summary{}, facts.Fact{}, err
	}
	return sum, ShippingFact(sum.Cart, tier), nil
}

// PlaceOrder finalizes the current cart, persists the order, reads it back and
// only then clears the cart.
func (s *service) PlaceOrder(ctx context.Context, scope string, in PaymentInput) (Placement, []facts.Fact, error) {
	c := s.carts.Load(ctx, scope)
	if c.IsEmpty() {
		return Placement{}, nil, ErrEmptyCart
	}
	emitted := []facts.Fact{PaymentFact(c, in.PaymentType, in.Coupon)}

	order, err := Finalize(c, in.ShippingTier, in.PaymentType, in.Coupon, s.ids.Next())
	if err != nil {
		return Placement{}, emitted, err
	}
	order.CreatedAt = s.clock.Now()
	ctx = s.logg.WithTransactionID(ctx, order.TransactionID)

	if err := s.orders.Save(ctx, scope, order); err != nil {
		return Placement{}, emitted, err
	}
	stored, err := s.orders.Last(ctx, scope)
	if err != nil {
		return Placement{}, emitted, fmt.Errorf("%w: %v", ErrOrderNotSaved, err)
	}
	if stored.TransactionID != order.TransactionID {
		return Placement{}, emitted, fmt.Errorf("%w: read back %s", ErrOrderNotSaved, stored.TransactionID)
	}

	if err := s.carts.Clear(ctx, scope); err != nil {
		s.logg.Error(ctx, "failed to clear cart after order", err)
	}
	s.logg.Info(s.logg.WithField(ctx, "value", order.Value.String()), "order placed")
	return Placement{Order: order, Redirect: order.Redirect()}, emitted, nil
}

// Confirm loads the last order for the success page and reports the purchase.
// orderHint is the id seen in the URL; the slot is authoritative.
func (s *service) Confirm(ctx context.Context, scope, orderHint string) (Order, facts.Fact, error) {
	order, err := s.orders.Last(ctx, scope)
	if err != nil {
		return Order{}, facts.Fact{}, err
	}
	ctx = s.logg.WithTransactionID(ctx, order.TransactionID)
	if hint := strings.TrimSpace(orderHint); hint != "" && hint != order.TransactionID {
		s.logg.Warn(s.logg.WithField(ctx, "order_hint", hint), "order hint does not match last order")
	}
	if err := s.carts.Clear(ctx, scope); err != nil {
		s.logg.Error(ctx, "failed to clear cart on confirmation", err)
	}
	return order, order.PurchaseFact(), nil
}
