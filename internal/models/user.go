package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is any party known to the garage: customers, staff and admins share
// one table and are told apart by Role.
type User struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Username     string          `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string          `json:"-" gorm:"column:password;not null"`
	FullName     string          `json:"full_name" gorm:"not null"`
	Phone        string          `json:"phone" gorm:"size:10;uniqueIndex;not null"`
	Role         string          `json:"role" gorm:"not null;index"`
	Position     *string         `json:"chucvu,omitempty" gorm:"column:chucvu"`
	Debt         decimal.Decimal `json:"so_no" gorm:"column:so_no;type:numeric(14,2);not null;default:0"`
	Note         *string         `json:"note"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleStaff    UserRole = "staff"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsEmployee reports whether the user can be assigned to a repair ticket.
func (u *User) IsEmployee() bool {
	return u.Role == string(RoleStaff) || u.Role == string(RoleAdmin)
}
