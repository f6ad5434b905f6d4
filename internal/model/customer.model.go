package model

import (
	"errors"
	"time"
)

var (
	ErrInvalidMobile = errors.New("mobile number is not a valid UK mobile")
	ErrEmptyName     = errors.New("first name is required")
)

type Customer struct {
	ID        int64     `json:"id"         db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	FirstName string    `json:"first_name" db:"first_name"  gorm:"column:first_name;not null"`
	LastName  string    `json:"last_name"  db:"last_name"   gorm:"column:last_name"`
	Mobile    string    `json:"mobile"     db:"mobile"      gorm:"column:mobile"` // E.164, +447XXXXXXXXX, may be empty
	Notes     string    `json:"notes"      db:"notes"       gorm:"column:notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (Customer) TableName() string { return "customers" }

// CustomerCreateRequest is the input for creating or updating a customer.
// Mobile is normalized before validation; an empty mobile is allowed
// (such customers are simply skipped by the reminder scanner).
type CustomerCreateRequest struct {
	FirstName string
	LastName  string
	Mobile    string
	Notes     string
}

func (p CustomerCreateRequest) Validate() error {
	if p.FirstName == "" {
		return ErrEmptyName
	}
	if p.Mobile != "" {
		if _, err := NormalizeUKMobile(p.Mobile); err != nil {
			return err
		}
	}
	return nil
}

// FullName is what SMS templates address the customer by.
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
