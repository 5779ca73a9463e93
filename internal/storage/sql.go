package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront/pkg/clock"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// SQLSlots stores slots as rows of the storage_slots table.
type SQLSlots struct {
	db     *gorm.DB
	pinger pinger
	clock  clock.Clock
}

func NewSQLSlots(db *gorm.DB, p pinger, clk clock.Clock) (*SQLSlots, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &SQLSlots{db: db, pinger: p, clock: clk}, nil
}

func (s *SQLSlots) Get(ctx context.Context, scope, name string) ([]byte, bool, error) {
	if err := validKey(scope, name); err != nil {
		return nil, false, err
	}
	var row models.StorageSlot
	err := s.db.WithContext(ctx).
		Where("scope = ? AND name = ?", scope, name).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select slot %s: %w", name, err)
	}
	return []byte(row.Value), true, nil
}

func (s *SQLSlots) Set(ctx context.Context, scope, name string, value []byte) error {
	if err := validKey(scope, name); err != nil {
		return err
	}
	row := models.StorageSlot{
		Scope:     scope,
		Name:      name,
		Value:     string(value),
		UpdatedAt: s.clock.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", name, err)
	}
	return nil
}

func (s *SQLSlots) Ping(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	return s.pinger.Ping(ctx)
}
