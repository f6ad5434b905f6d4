package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/logger"
)

var (
	ErrNotFound      = errors.New("error notfound")
	ErrEventCanceled = errors.New("canceled events do not accept bookings")
)

type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) (*model.Booking, error)
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) (*model.Booking, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, int64, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
}

type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Event, error)
}

type MessageArchiver interface {
	ArchiveByBooking(ctx context.Context, bookingID int64) error
}

// Notifier is the dispatcher seen from the booking side. Send failures
// are always swallowed here and reported via BookingResult.SmsSent.
type Notifier interface {
	Send(ctx context.Context, p SendParams) (*model.SmsMessage, error)
}

type BookingService struct {
	bookingRepo  BookingRepository
	customerRepo CustomerRepository
	eventRepo    EventRepository
	archiver     MessageArchiver
	notifier     Notifier
}

func NewBookingService(bookingRepo BookingRepository, customerRepo CustomerRepository, eventRepo EventRepository, archiver MessageArchiver, notifier Notifier) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		eventRepo:    eventRepo,
		archiver:     archiver,
		notifier:     notifier,
	}
}

// Create validates and persists a booking, then best-effort dispatches a
// confirmation SMS. A messaging failure never rolls back the booking.
func (s *BookingService) Create(ctx context.Context, p model.BookingCreateRequest) (*model.BookingResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, p.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check customer: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if event.Canceled {
		return nil, ErrEventCanceled
	}

	b := &model.Booking{
		CustomerID:   p.CustomerID,
		EventID:      p.EventID,
		Seats:        p.Seats,
		ReminderOnly: p.ReminderOnly,
		Notes:        p.Notes,
	}

	created, err := s.bookingRepo.Create(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	created.Customer = customer
	created.Event = event

	smsSent := s.sendConfirmation(ctx, p.SendNotification, created, customer, event)

	logger.Info("booking created",
		"booking_id", created.ID,
		"event_id", event.ID,
		"customer_id", customer.ID,
		"seats", created.Seats,
		"sms_sent", smsSent)

	return &model.BookingResult{Booking: created, SmsSent: smsSent}, nil
}

// Update applies the same validation as Create and re-sends a
// confirmation message when requested.
func (s *BookingService) Update(ctx context.Context, id int64, p model.BookingCreateRequest) (*model.BookingResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, p.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check customer: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if event.Canceled {
		return nil, ErrEventCanceled
	}

	existing.CustomerID = p.CustomerID
	existing.EventID = p.EventID
	existing.Seats = p.Seats
	existing.ReminderOnly = p.ReminderOnly
	existing.Notes = p.Notes

	updated, err := s.bookingRepo.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	smsSent := s.sendConfirmation(ctx, p.SendNotification, updated, customer, event)

	logger.Info("booking updated", "booking_id", updated.ID, "sms_sent", smsSent)

	return &model.BookingResult{Booking: updated, SmsSent: smsSent}, nil
}

// Delete removes the booking row and soft-archives its message records.
// A missing booking is a distinct not-found error, surfaced before any
// deletion happens.
func (s *BookingService) Delete(ctx context.Context, id int64) error {
	if _, err := s.bookingRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return s.bookingRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.Delete(ctx, id); err != nil {
			return err
		}
		if err := s.archiver.ArchiveByBooking(ctx, id); err != nil {
			return fmt.Errorf("archive messages: %w", err)
		}
		return nil
	})
}

func (s *BookingService) Get(ctx context.Context, id int64) (*model.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *BookingService) List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, int64, error) {
	return s.bookingRepo.List(ctx, f)
}

func (s *BookingService) sendConfirmation(ctx context.Context, requested bool, b *model.Booking, customer *model.Customer, event *model.Event) bool {
	if !requested || customer.Mobile == "" {
		return false
	}

	_, err := s.notifier.Send(ctx, SendParams{
		To:         customer.Mobile,
		Body:       confirmationBody(customer, event, b),
		Type:       model.SmsTypeConfirmation,
		BookingID:  &b.ID,
		CustomerID: &customer.ID,
	})
	if err != nil {
		if !errors.Is(err, ErrSmsDisabled) {
			logger.Warn("confirmation sms not sent", "booking_id", b.ID, "error", err)
		}
		return false
	}
	return true
}

func confirmationBody(c *model.Customer, ev *model.Event, b *model.Booking) string {
	when := ev.StartsAt.Format("Monday 2 January at 3:04pm")
	if b.ReminderOnly {
		return fmt.Sprintf("Hi %s, we'll remind you about %s on %s. Reply to this message if anything changes.", c.FirstName, ev.Title, when)
	}
	return fmt.Sprintf("Hi %s, your booking for %s on %s is confirmed (%d seat(s)). Reply to this message if anything changes.", c.FirstName, ev.Title, when, b.Seats)
}
