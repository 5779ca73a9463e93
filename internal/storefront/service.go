// Package storefront runs every storefront operation: it loads state, calls the
// pure cart, catalog and checkout cores, persists the result and dispatches the
// facts they produce.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/internal/analytics"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/facts"
	"github.com/angelmondragon/storefront/internal/pricing"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

// ProductQuery is a catalog listing request. Promo is the promotion landing
// id carried by the shop URL, if any.
type ProductQuery struct {
	catalog.QueryParams
	Promo string
}

type ProductPage struct {
	Products   []catalog.Product `json:"products"`
	Categories []string          `json:"categories"`
	Total      int               `json:"total"`
	Shown      int               `json:"shown"`
}

type ProductDetail struct {
	Product catalog.Product   `json:"product"`
	Related []catalog.Product `json:"related"`
}

// AddInput adds Quantity of ItemID. Featured items come from the fixed home
// page selection rather than the fetched catalog.
type AddInput struct {
	ItemID   string
	Quantity int
	Featured bool
}

type CartView struct {
	Lines     cart.Cart        `json:"items"`
	Totals    pricing.Snapshot `json:"totals"`
	ItemCount int              `json:"item_count"`
}

type Service interface {
	Products(ctx context.Context, scope string, q ProductQuery) (ProductPage, error)
	Featured(ctx context.Context) []catalog.Product
	Product(ctx context.Context, scope, id string) (ProductDetail, error)
	SelectProduct(ctx context.Context, scope, id, listName string) error

	Cart(ctx context.Context, scope string) CartView
	AddToCart(ctx context.Context, scope string, in AddInput) (CartView, error)
	UpdateQuantity(ctx context.Context, scope, id string, qty int) (CartView, error)
	RemoveFromCart(ctx context.Context, scope, id string) (CartView, error)

	BeginCheckout(ctx context.Context, scope string) (CartView, error)
	ChooseShipping(ctx context.Context, scope, tier string) (CartView, error)
	PlaceOrder(ctx context.Context, scope string, in checkout.PaymentInput) (checkout.Placement, error)
	LastOrder(ctx context.Context, scope, orderHint string) (checkout.Order, error)

	ViewPromotion(ctx context.Context, scope, id string)
	SelectPromotion(ctx context.Context, scope, id, name string)
	PageView(ctx context.Context, scope, title, location, path string)
}

type Deps struct {
	Source   catalog.Source
	Carts    *cart.Store
	Checkout checkout.Service
	Tracker  analytics.Tracker
	Metrics  *metrics.Storefront
	Logger   *logger.Logger
}

type service struct {
	source   catalog.Source
	carts    *cart.Store
	checkout checkout.Service
	tracker  analytics.Tracker
	metrics  *metrics.Storefront
	logg     *logger.Logger
}

func NewService(d Deps) (Service, error) {
	if d.Source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	if d.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if d.Checkout == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	if d.Tracker == nil {
		return nil, fmt.Errorf("tracker required")
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	return &service{
		source:   d.Source,
		carts:    d.Carts,
		checkout: d.Checkout,
		tracker:  d.Tracker,
		metrics:  d.Metrics,
		logg:     d.Logger,
	}, nil
}

func (s *service) emit(ctx context.Context, scope string, fs ...facts.Fact) {
	s.tracker.Emit(analytics.WithSession(ctx, scope), fs...)
}

func (s *service) fetch(ctx context.Context) ([]catalog.Product, error) {
	start := time.Now()
	products, err := s.source.Fetch(ctx)
	s.metrics.ObserveCatalogFetch(time.Since(start), err)
	if err != nil {
		s.logg.Error(ctx, "catalog fetch failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unavailable")
	}
	return products, nil
}

func (s *service) Products(ctx context.Context, scope string, q ProductQuery) (ProductPage, error) {
	if f, ok := facts.PromotionViewed(q.Promo); ok {
		s.emit(ctx, scope, f)
	}
	products, err := s.fetch(ctx)
	if err != nil {
		return ProductPage{}, err
	}

	res := catalog.Query(products, q.QueryParams)
	s.emit(ctx, scope, res.Facts...)

	return ProductPage{
		Products:   res.Products,
		Categories: catalog.Categories(products),
		Total:      res.Total,
		Shown:      len(res.Products),
	}, nil
}

func (s *service) Featured(context.Context) []catalog.Product {
	return catalog.Featured()
}

func (s *service) lookup(ctx context.Context, id string, featured bool) (catalog.Product, error) {
	var products []catalog.Product
	if featured {
		products = catalog.Featured()
	} else {
		var err error
		if products, err = s.fetch(ctx); err != nil {
			return catalog.Product{}, err
		}
	}
	p, err := catalog.Find(products, id)
	if err != nil {
		return catalog.Product{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	return p, nil
}

func (s *service) Product(ctx context.Context, scope, id string) (ProductDetail, error) {
	products, err := s.fetch(ctx)
	if err != nil {
		return ProductDetail{}, err
	}
	p, err := catalog.Find(products, id)
	if err != nil {
		return ProductDetail{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	s.emit(ctx, scope, catalog.ViewItemFact(p))
	return ProductDetail{Product: p, Related: catalog.Related(products, p)}, nil
}

func (s *service) SelectProduct(ctx context.Context, scope, id, listName string) error {
	listName = strings.TrimSpace(listName)
	featured := listName == facts.ListFeatured
	if listName == "" {
		listName = facts.ListCatalogue
	}
	p, err := s.lookup(ctx, id, featured)
	if err != nil {
		return err
	}
	s.emit(ctx, scope, catalog.SelectItemFact(listName, p))
	return nil
}

func view(c cart.Cart) CartView {
	if c == nil {
		c = cart.Cart{}
	}
	return CartView{Lines: c, Totals: pricing.Compute(c), ItemCount: cart.ItemCount(c)}
}

// Cart re-reads the cart and reports view_cart when it has lines.
func (s *service) Cart(ctx context.Context, scope string) CartView {
	c := s.carts.Load(ctx, scope)
	if !c.IsEmpty() {
		s.emit(ctx, scope, cart.View(c))
	}
	return view(c)
}

func (s *service) save(ctx context.Context, scope, op string, c cart.Cart) error {
	if err := s.carts.Save(ctx, scope, c); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "op", op), "cart save failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save cart")
	}
	s.metrics.IncCartMutation(op)
	return nil
}

func (s *service) AddToCart(ctx context.Context, scope string, in AddInput) (CartView, error) {
	p, err := s.lookup(ctx, in.ItemID, in.Featured)
	if err != nil {
		return CartView{}, err
	}
	if !p.InStock {
		return CartView{}, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock").
			WithDetails(map[string]any{"item_id": p.ItemID})
	}

	next, fs := cart.Add(s.carts.Load(ctx, scope), p, in.Quantity)
	if err := s.save(ctx, scope, "add", next); err != nil {
		return CartView{}, err
	}
	s.emit(ctx, scope, fs...)
	return view(next), nil
}

// UpdateQuantity and RemoveFromCart leave the slot untouched when id is not
// in the cart.
func (s *service) UpdateQuantity(ctx context.Context, scope, id string, qty int) (CartView, error) {
	id = strings.TrimSpace(id)
	cur := s.carts.Load(ctx, scope)
	if !cur.Has(id) {
		return view(cur), nil
	}
	next := cart.SetQuantity(cur, id, qty)
	if err := s.save(ctx, scope, "set_quantity", next); err != nil {
		return CartView{}, err
	}
	return view(next), nil
}

func (s *service) RemoveFromCart(ctx context.Context, scope, id string) (CartView, error) {
	id = strings.TrimSpace(id)
	cur := s.carts.Load(ctx, scope)
	if !cur.Has(id) {
		return view(cur), nil
	}
	next, fs := cart.Remove(cur, id)
	if err := s.save(ctx, scope, "remove", next); err != nil {
		return CartView{}, err
	}
	s.emit(ctx, scope, fs...)
	return view(next), nil
}

func (s *service) BeginCheckout(ctx context.Context, scope string) (CartView, error) {
	sum, f, err := s.checkout.Begin(ctx, scope)
	if err != nil {
		return CartView{}, checkoutError(err)
	}
	s.emit(ctx, scope, f)
	return view(sum.Cart), nil
}

func (s *service) ChooseShipping(ctx context.Context, scope, tier string) (CartView, error) {
	sum, f, err := s.checkout.Shipping(ctx, scope, tier)
	if err != nil {
		return CartView{}, checkoutError(err)
	}
	s.emit(ctx, scope, f)
	return view(sum.Cart), nil
}

func (s *service) PlaceOrder(ctx context.Context, scope string, in checkout.PaymentInput) (checkout.Placement, error) {
	placed, fs, err := s.checkout.PlaceOrder(ctx, scope, in)
	s.emit(ctx, scope, fs...)
	if err != nil {
		outcome := "failed"
		if errors.Is(err, checkout.ErrEmptyCart) {
			outcome = "empty_cart"
		} else {
			s.logg.Error(ctx, "place order failed", err)
		}
		s.metrics.IncOrder(outcome)
		return checkout.Placement{}, checkoutError(err)
	}
	s.metrics.IncOrder("placed")
	return placed, nil
}

// LastOrder backs the success page: it reports the purchase and clears the cart.
func (s *service) LastOrder(ctx context.Context, scope, orderHint string) (checkout.Order, error) {
	order, f, err := s.checkout.Confirm(ctx, scope, orderHint)
	if err != nil {
		return checkout.Order{}, checkoutError(err)
	}
	s.emit(ctx, scope, f)
	return order, nil
}

func checkoutError(err error) error {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return pkgerrors.Wrap(pkgerrors.CodeEmptyCart, err, "cart is empty").
			WithDetails(map[string]any{"redirect": checkout.ShopPage})
	case errors.Is(err, checkout.ErrOrderNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "no order found")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout failed")
	}
}

func (s *service) ViewPromotion(ctx context.Context, scope, id string) {
	if f, ok := facts.PromotionViewed(id); ok {
		s.emit(ctx, scope, f)
	}
}

func (s *service) SelectPromotion(ctx context.Context, scope, id, name string) {
	s.emit(ctx, scope, facts.PromotionSelected(id, name))
}

func (s *service) PageView(ctx context.Context, scope, title, location, path string) {
	s.emit(ctx, scope, facts.PageView(title, location, path))
}
