package models

import "time"

// StatusEvent is an append-only record of a ticket status change.
type StatusEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TicketID  uint      `json:"ticket_id" gorm:"not null;index"`
	Status    string    `json:"status" gorm:"not null"`
	Actor     string    `json:"actor" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}
