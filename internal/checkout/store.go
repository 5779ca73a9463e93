package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/storefront/internal/storage"
)

// OrderStore keeps the last order of each session scope.
type OrderStore struct {
	slots storage.Slots
}

func NewOrderStore(slots storage.Slots) (*OrderStore, error) {
	if slots == nil {
		return nil, fmt.Errorf("slots required")
	}
	return &OrderStore{slots: slots}, nil
}

func (s *OrderStore) Save(ctx context.Context, scope string, o Order) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	if err := s.slots.Set(ctx, scope, storage.LastOrderSlot, payload); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

// Last returns the last order of scope, or ErrOrderNotFound when the slot is
// absent or unreadable as an order.
func (s *OrderStore) Last(ctx context.Context, scope string) (Order, error) {
	raw, found, err := s.slots.Get(ctx, scope, storage.LastOrderSlot)
	if err != nil {
		return Order{}, fmt.Errorf("load order: %w", err)
	}
	if !found {
		return Order{}, ErrOrderNotFound
	}
	var o Order
	if err := json.Unmarshal(raw, &o); err != nil || o.TransactionID == "" {
		return Order{}, ErrOrderNotFound
	}
	return o, nil
}
