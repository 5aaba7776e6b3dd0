package models

import "time"

const AppointmentPending = "Chờ xác nhận"

type Appointment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Plate       *string   `json:"plate" gorm:"size:8"`
	CustomerID  uint      `json:"customer_id" gorm:"not null;index"`
	ScheduledAt time.Time `json:"scheduled_at" gorm:"not null;index"`
	Note        string    `json:"note"`
	Status      string    `json:"status" gorm:"not null"`
	ModelID     uint      `json:"model_id" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AppointmentView struct {
	Appointment
	FullName string  `json:"full_name" gorm:"column:full_name"`
	Phone    string  `json:"phone" gorm:"column:phone"`
	Brand    *string `json:"brand" gorm:"column:brand"`
	Model    *string `json:"model" gorm:"column:model"`
}
