package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceItem is a billable service on a ticket. It always counts once.
type ServiceItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	TicketID  uint            `json:"ticket_id" gorm:"not null;index"`
	ServiceID uint            `json:"service_id" gorm:"not null"`
	Note      string          `json:"note"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`

	ServiceName string `json:"service_name,omitempty" gorm:"->;-:migration"`
}

func (s ServiceItem) Amount() decimal.Decimal {
	return s.Price
}

// PartItem is a part used on a ticket. Price is the unit price.
type PartItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	TicketID  uint            `json:"ticket_id" gorm:"not null;index"`
	PartID    uint            `json:"part_id" gorm:"not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`

	PartName string `json:"part_name,omitempty" gorm:"->;-:migration"`
}

func (p PartItem) Amount() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// TicketItems is the line-item listing of one ticket.
type TicketItems struct {
	TicketID uint            `json:"ticket_id"`
	Services []ServiceItem   `json:"services"`
	Parts    []PartItem      `json:"parts"`
	Labor    decimal.Decimal `json:"labor_price"`
	Total    decimal.Decimal `json:"total"`
}
