package repository

import (
	"time"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
)

type BookingEntity struct {
	ID           int64           `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID   int64           `db:"customer_id"   gorm:"column:customer_id;not null;index"`
	Customer     *CustomerEntity `gorm:"foreignKey:CustomerID;references:ID"`
	EventID      int64           `db:"event_id"      gorm:"column:event_id;not null;index"`
	Event        *EventEntity    `gorm:"foreignKey:EventID;references:ID"`
	Seats        int             `db:"seats"         gorm:"column:seats;not null;default:0"`
	ReminderOnly bool            `db:"reminder_only" gorm:"column:reminder_only;not null;default:false"`
	Notes        string          `db:"notes"         gorm:"column:notes"`
	CreatedAt    time.Time       `db:"created_at"    gorm:"column:created_at;autoCreateTime"`
}

func (BookingEntity) TableName() string {
	return "bookings"
}

func toBookingEntity(m *model.Booking) *BookingEntity {
	if m == nil {
		return nil
	}
	return &BookingEntity{
		ID:           m.ID,
		CustomerID:   m.CustomerID,
		EventID:      m.EventID,
		Seats:        m.Seats,
		ReminderOnly: m.ReminderOnly,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
	}
}

func toBookingModel(e *BookingEntity) *model.Booking {
	if e == nil {
		return nil
	}
	return &model.Booking{
		ID:           e.ID,
		CustomerID:   e.CustomerID,
		Customer:     toCustomerModel(e.Customer),
		EventID:      e.EventID,
		Event:        toEventModel(e.Event),
		Seats:        e.Seats,
		ReminderOnly: e.ReminderOnly,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
	}
}

func toBookingModels(entities []*BookingEntity) []*model.Booking {
	if entities == nil {
		return nil
	}
	models := make([]*model.Booking, len(entities))
	for i, e := range entities {
		models[i] = toBookingModel(e)
	}
	return models
}
