package repository

import (
	"context"
	"errors"
	"time"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrBookingNotFound is returned when a booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
)

type BookingRepository struct {
	*pg.DB
}

func NewBookingRepository(db *pg.DB) *BookingRepository {
	return &BookingRepository{
		db,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	entity := toBookingEntity(b)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toBookingModel(entity), nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	var entity BookingEntity
	err := r.Read(ctx).Preload("Customer").Preload("Event").First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return toBookingModel(&entity), nil
}

func (r *BookingRepository) Update(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	entity := toBookingEntity(b)

	res := r.Write(ctx).Model(&BookingEntity{}).Where("id = ?", entity.ID).Updates(map[string]any{
		"customer_id":   entity.CustomerID,
		"event_id":      entity.EventID,
		"seats":         entity.Seats,
		"reminder_only": entity.ReminderOnly,
		"notes":         entity.Notes,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrBookingNotFound
	}
	return r.GetByID(ctx, entity.ID)
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).Delete(&BookingEntity{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, int64, error) {
	q := r.Read(ctx).Model(&BookingEntity{})

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.EventID != nil {
		q = q.Where("event_id = ?", *f.EventID)
	}

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at"
	if f.Desc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*BookingEntity
	if err := q.Preload("Customer").Preload("Event").Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toBookingModels(entities), total, nil
}

// ListForEventDate returns every booking whose event starts on the given
// calendar day, excluding canceled events. Customer and event rows come
// preloaded because the reminder scanner needs both.
func (r *BookingRepository) ListForEventDate(ctx context.Context, day time.Time) ([]*model.Booking, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var entities []*BookingEntity
	err := r.Read(ctx).Model(&BookingEntity{}).
		Joins("JOIN events ON events.id = bookings.event_id").
		Where("events.starts_at >= ? AND events.starts_at < ?", start, end).
		Where("events.canceled = ?", false).
		Preload("Customer").
		Preload("Event").
		Order("bookings.id ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}

	return toBookingModels(entities), nil
}

// ListByEvent returns all bookings for one event with customers preloaded.
// Event cancellation uses it to notify every affected customer.
func (r *BookingRepository) ListByEvent(ctx context.Context, eventID int64) ([]*model.Booking, error) {
	var entities []*BookingEntity
	err := r.Read(ctx).Model(&BookingEntity{}).
		Where("event_id = ?", eventID).
		Preload("Customer").
		Preload("Event").
		Order("id ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toBookingModels(entities), nil
}

func (r *BookingRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.DB.WithinTransaction(ctx, fn)
}
