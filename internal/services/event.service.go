package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/logger"
)

type EventStore interface {
	Create(ctx context.Context, ev *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	Update(ctx context.Context, ev *model.Event) (*model.Event, error)
	SetCanceled(ctx context.Context, id int64) error
	List(ctx context.Context, f model.EventFilter) ([]*model.Event, int64, error)
	GetCategory(ctx context.Context, id int64) (*model.EventCategory, error)
	ListCategories(ctx context.Context) ([]*model.EventCategory, error)
}

type EventBookings interface {
	ListByEvent(ctx context.Context, eventID int64) ([]*model.Booking, error)
}

type EventService struct {
	eventRepo   EventStore
	bookingRepo EventBookings
	notifier    Notifier
}

func NewEventService(eventRepo EventStore, bookingRepo EventBookings, notifier Notifier) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
	}
}

// Create validates and persists a new event. When a category is given,
// its defaults fill any zero-valued capacity.
func (s *EventService) Create(ctx context.Context, p model.EventCreateRequest) (*model.Event, error) {
	if p.CategoryID != nil && p.Capacity == 0 {
		cat, err := s.eventRepo.GetCategory(ctx, *p.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("check category: %w", err)
		}
		p.Capacity = cat.DefaultCapacity
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	ev := &model.Event{
		Title:       p.Title,
		Description: p.Description,
		StartsAt:    p.StartsAt,
		Capacity:    p.Capacity,
		CategoryID:  p.CategoryID,
		Published:   p.Published,
	}
	return s.eventRepo.Create(ctx, ev)
}

func (s *EventService) Update(ctx context.Context, id int64, p model.EventCreateRequest) (*model.Event, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Title = p.Title
	existing.Description = p.Description
	existing.StartsAt = p.StartsAt
	existing.Capacity = p.Capacity
	existing.CategoryID = p.CategoryID
	existing.Published = p.Published

	return s.eventRepo.Update(ctx, existing)
}

// Cancel marks the event canceled and best-effort notifies every booking
// whose customer has a mobile number. Notification failures never undo
// the cancellation; the caller gets the count of messages that went out.
func (s *EventService) Cancel(ctx context.Context, id int64) (int, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := s.eventRepo.SetCanceled(ctx, id); err != nil {
		return 0, err
	}

	bookings, err := s.bookingRepo.ListByEvent(ctx, id)
	if err != nil {
		logger.Error("failed to list bookings for cancellation notices", "event_id", id, "error", err)
		return 0, nil
	}

	notified := 0
	for _, b := range bookings {
		if b.Customer == nil || b.Customer.Mobile == "" {
			continue
		}
		_, err := s.notifier.Send(ctx, SendParams{
			To:         b.Customer.Mobile,
			Body:       cancellationBody(b.Customer, event),
			Type:       model.SmsTypeCancellation,
			BookingID:  &b.ID,
			CustomerID: &b.Customer.ID,
		})
		if err != nil {
			if !errors.Is(err, ErrSmsDisabled) {
				logger.Warn("cancellation sms not sent", "booking_id", b.ID, "error", err)
			}
			continue
		}
		notified++
	}

	logger.Info("event canceled", "event_id", id, "bookings", len(bookings), "notified", notified)

	return notified, nil
}

func (s *EventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *EventService) List(ctx context.Context, f model.EventFilter) ([]*model.Event, int64, error) {
	return s.eventRepo.List(ctx, f)
}

func (s *EventService) ListCategories(ctx context.Context) ([]*model.EventCategory, error) {
	return s.eventRepo.ListCategories(ctx)
}

func cancellationBody(c *model.Customer, ev *model.Event) string {
	when := ev.StartsAt.Format("Monday 2 January")
	return fmt.Sprintf("Hi %s, unfortunately %s on %s has been cancelled. Sorry for any inconvenience.", c.FirstName, ev.Title, when)
}
