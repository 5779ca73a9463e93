package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/storage"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

// Listener is told about every successful save.
type Listener func(ctx context.Context, scope string, c Cart)

// Store persists carts in the cart slot of a session scope.
type Store struct {
	slots storage.Slots
	logg  *logger.Logger

	mu        sync.RWMutex
	listeners []Listener
}

func NewStore(slots storage.Slots, logg *logger.Logger) (*Store, error) {
	if slots == nil {
		return nil, fmt.Errorf("slots required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{slots: slots, logg: logg}, nil
}

// OnChange registers fn for the "cart changed" notification.
func (s *Store) OnChange(fn Listener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Load returns the saved cart of scope. Missing, unreadable or malformed
// slots yield an empty cart.
func (s *Store) Load(ctx context.Context, scope string) Cart {
	raw, found, err := s.slots.Get(ctx, scope, storage.CartSlot)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"scope": scope, "error": err.Error()}), "cart slot unreadable")
		return Cart{}
	}
	if !found {
		return Cart{}
	}
	c, err := decodeCart(raw)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"scope": scope, "error": err.Error()}), "cart slot malformed, starting empty")
		return Cart{}
	}
	return c
}

// Save overwrites the cart slot and then notifies listeners once.
func (s *Store) Save(ctx context.Context, scope string, c Cart) error {
	if c == nil {
		c = Cart{}
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.slots.Set(ctx, scope, storage.CartSlot, payload); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, scope, c.Clone())
	}
	return nil
}

// Clear saves an empty cart.
func (s *Store) Clear(ctx context.Context, scope string) error {
	return s.Save(ctx, scope, Cart{})
}

type rawLine struct {
	ItemID       string          `json:"item_id"`
	ItemName     string          `json:"item_name"`
	ItemCategory string          `json:"item_category"`
	Price        json.RawMessage `json:"price"`
	Currency     string          `json:"currency"`
	Quantity     json.RawMessage `json:"quantity"`
	Image        string          `json:"image"`
}

// decodeCart reads a stored cart leniently and repairs it so that every line
// has an id, a non-negative price, a currency and a quantity of at least 1,
// with one line per id.
func decodeCart(raw []byte) (Cart, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Cart{}, nil
	}
	var lines []rawLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}

	out := make(Cart, 0, len(lines))
	for _, rl := range lines {
		id := strings.TrimSpace(rl.ItemID)
		if id == "" {
			continue
		}
		price := lenientNumber(rl.Price)
		if price.IsNegative() {
			price = decimal.Zero
		}
		qty := storedQuantity(rl.Quantity)
		currency := strings.TrimSpace(rl.Currency)
		if currency == "" {
			currency = catalog.DefaultCurrency
		}

		if i := out.index(id); i >= 0 {
			out[i].Quantity = clampQuantity(out[i].Quantity + qty)
			continue
		}
		out = append(out, Line{
			ItemID:       id,
			ItemName:     rl.ItemName,
			ItemCategory: rl.ItemCategory,
			Price:        price,
			Currency:     currency,
			Quantity:     qty,
			Image:        rl.Image,
		})
	}
	return out, nil
}

// storedQuantity caps before converting so huge values cannot wrap.
func storedQuantity(raw json.RawMessage) int {
	d := lenientNumber(raw)
	if d.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
		return MaxQuantity
	}
	return clampQuantity(int(d.IntPart()))
}

// lenientNumber accepts a JSON number or numeric string; anything else is 0.
func lenientNumber(raw json.RawMessage) decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return decimal.Zero
		}
		s = strings.TrimSpace(str)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
