// Package storage persists named per-session values ("slots"), the server-side
// counterpart of a browser's durable key-value store.
package storage

import (
	"context"
	"errors"
	"strings"
)

// Slot names shared with the storefront front end.
const (
	CartSlot      = "ec_cart_v1"
	LastOrderSlot = "ec_last_order_v1"
	UserIDSlot    = "ec_user_id_v1"
)

var ErrScopeRequired = errors.New("storage: scope and slot name are required")

// Slots reads and writes whole slot values. Writes are last-write-wins and
// implementations are safe for concurrent use.
type Slots interface {
	// Get returns found=false without error when the slot was never written.
	Get(ctx context.Context, scope, name string) (value []byte, found bool, err error)
	Set(ctx context.Context, scope, name string, value []byte) error
	Ping(ctx context.Context) error
}

func validKey(scope, name string) error {
	if strings.TrimSpace(scope) == "" || strings.TrimSpace(name) == "" {
		return ErrScopeRequired
	}
	return nil
}
