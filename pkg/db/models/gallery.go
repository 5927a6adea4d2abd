package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Gallery is a reseller that holds pieces on commission.
type Gallery struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_galleries_user_name,priority:1"`
	Name           string           `gorm:"column:name;not null;uniqueIndex:ux_galleries_user_name,priority:2"`
	ContactName    *string          `gorm:"column:contact_name"`
	Email          *string          `gorm:"column:email"`
	Phone          *string          `gorm:"column:phone"`
	Address        *string          `gorm:"column:address"`
	City           *string          `gorm:"column:city"`
	Country        *string          `gorm:"column:country"`
	Website        *string          `gorm:"column:website"`
	CommissionRate *decimal.Decimal `gorm:"column:commission_rate;type:numeric(5,2)"`
	Notes          *string          `gorm:"column:notes"`
	IsActive       bool             `gorm:"column:is_active;not null"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (g *Gallery) BeforeCreate(*gorm.DB) error {
	ensureID(&g.ID)
	return nil
}
