package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CarModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Brand     string    `json:"brand" gorm:"not null;uniqueIndex:idx_car_models_brand_model"`
	Model     string    `json:"model" gorm:"not null;uniqueIndex:idx_car_models_brand_model"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Part is a stocked spare part. Name is unique case-insensitively; the
// functional index is created by the database package.
type Part struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"not null"`
	Quantity  int             `json:"quantity" gorm:"not null;default:0"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null;default:0"`
	MinStock  int             `json:"min_stock" gorm:"not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (p *Part) LowStock() bool {
	return p.Quantity <= p.MinStock
}
