package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is one repair job, from vehicle intake to payment.
type Ticket struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Plate          string          `json:"plate" gorm:"size:8;not null;index"`
	IntakeStaffID  uint            `json:"intake_staff_id" gorm:"not null"`
	RepairStaffID  uint            `json:"repair_staff_id"`
	IntakeTime     time.Time       `json:"intake_time" gorm:"not null"`
	CompletionTime *time.Time      `json:"completion_time"`
	LaborPrice     decimal.Decimal `json:"labor_price" gorm:"type:numeric(14,2);not null;default:0"`
	Total          decimal.Decimal `json:"total" gorm:"type:numeric(14,2);not null;default:0"`
	PaymentStatus  string          `json:"payment_status" gorm:"not null"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	ServiceItems []ServiceItem `json:"-" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	PartItems    []PartItem    `json:"-" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	StatusEvents []StatusEvent `json:"-" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
}

const (
	StatusUnpaid = "Chưa thanh toán"
	StatusPaid   = "Đã thanh toán"

	UnknownActor = "Không rõ"
)

// Recompute sets Total from the labor price and every line item. It is the
// only place the ticket total is derived.
func (t *Ticket) Recompute(services []ServiceItem, parts []PartItem) {
	total := t.LaborPrice
	for _, s := range services {
		total = total.Add(s.Amount())
	}
	for _, p := range parts {
		total = total.Add(p.Amount())
	}
	t.Total = total
}

// TicketView is the joined read model served by list and detail calls.
type TicketView struct {
	ID              uint            `json:"id" gorm:"column:id"`
	Plate           string          `json:"plate" gorm:"column:plate"`
	IntakeTime      time.Time       `json:"intake_time" gorm:"column:intake_time"`
	CompletionTime  *time.Time      `json:"completion_time" gorm:"column:completion_time"`
	LaborPrice      decimal.Decimal `json:"labor_price" gorm:"column:labor_price"`
	Total           decimal.Decimal `json:"total" gorm:"column:total"`
	PaymentStatus   string          `json:"payment_status" gorm:"column:payment_status"`
	OwnerID         *uint           `json:"owner_id" gorm:"column:owner_id"`
	OwnerName       *string         `json:"owner_name" gorm:"column:owner_name"`
	OwnerPhone      *string         `json:"owner_phone" gorm:"column:owner_phone"`
	IntakeStaffID   uint            `json:"intake_staff_id" gorm:"column:intake_staff_id"`
	IntakeStaffName *string         `json:"intake_staff_name" gorm:"column:intake_staff_name"`
	RepairStaffID   uint            `json:"repair_staff_id" gorm:"column:repair_staff_id"`
	RepairStaffName *string         `json:"repair_staff_name" gorm:"column:repair_staff_name"`
}
