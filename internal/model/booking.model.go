package model

import (
	"errors"
	"time"
)

var (
	ErrMissingCustomer = errors.New("customer_id is required")
	ErrMissingEvent    = errors.New("event_id is required")
	ErrInvalidSeats    = errors.New("seat count must be a positive integer")
)

// Booking is a customer's reservation against an event. The source system
// overloaded one field to mean either a seat count or a reminder marker;
// here that is split into Seats and ReminderOnly. A reminder-only booking
// holds no seats and exists purely to receive reminder messages.
type Booking struct {
	ID           int64     `json:"id"            db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID   int64     `json:"customer_id"   db:"customer_id"    gorm:"column:customer_id;not null;index"`
	Customer     *Customer `json:"-"                                  gorm:"foreignKey:CustomerID;references:ID"`
	EventID      int64     `json:"event_id"      db:"event_id"       gorm:"column:event_id;not null;index"`
	Event        *Event    `json:"-"                                  gorm:"foreignKey:EventID;references:ID"`
	Seats        int       `json:"seats"         db:"seats"          gorm:"column:seats;not null;default:0"`
	ReminderOnly bool      `json:"reminder_only" db:"reminder_only"  gorm:"column:reminder_only;not null;default:false"`
	Notes        string    `json:"notes"         db:"notes"          gorm:"column:notes"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"     gorm:"column:created_at;autoCreateTime"`
}

func (Booking) TableName() string { return "bookings" }

// BookingCreateRequest is the input for creating or updating a booking.
// SendNotification defaults to true at the handler layer.
type BookingCreateRequest struct {
	CustomerID       int64
	EventID          int64
	Seats            int
	ReminderOnly     bool
	Notes            string
	SendNotification bool
}

func (p BookingCreateRequest) Validate() error {
	if p.CustomerID == 0 {
		return ErrMissingCustomer
	}
	if p.EventID == 0 {
		return ErrMissingEvent
	}
	if !p.ReminderOnly && p.Seats <= 0 {
		return ErrInvalidSeats
	}
	if p.ReminderOnly && p.Seats < 0 {
		return ErrInvalidSeats
	}
	return nil
}

// BookingFilter controls List queries.
type BookingFilter struct {
	CustomerID *int64
	EventID    *int64
	Limit      int // default 50
	Offset     int
	Desc       bool // order by created_at
}

// BookingResult pairs the persisted booking with whether a confirmation
// message actually went out. Messaging failures never fail the write, so
// SmsSent is the only place the caller learns about them.
type BookingResult struct {
	Booking *Booking `json:"booking"`
	SmsSent bool     `json:"smsSent"`
}
