package models

import "time"

// StorageSlot is one named value persisted for a session scope.
type StorageSlot struct {
	Scope     string    `gorm:"type:varchar(128);primaryKey"`
	Name      string    `gorm:"type:varchar(64);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (StorageSlot) TableName() string {
	return "storage_slots"
}
