package services

import (
	"context"
	"fmt"
	"time"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/logger"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/prom"
)

type ReminderBookingRepository interface {
	ListForEventDate(ctx context.Context, day time.Time) ([]*model.Booking, error)
}

type ReminderLog interface {
	ExistsForBooking(ctx context.Context, bookingID int64, t model.SmsType) (bool, error)
}

// ReminderService scans upcoming events and sends the 7-day and 24-hour
// reminder messages. Per (booking, kind) the state moves not-due →
// due-and-unsent → sent, or to skipped when the customer has no mobile,
// the event already passed, or a record of that kind already exists.
// Failed sends are counted in the summary and not retried within the run.
type ReminderService struct {
	bookingRepo ReminderBookingRepository
	log         ReminderLog
	notifier    Notifier
}

func NewReminderService(bookingRepo ReminderBookingRepository, log ReminderLog, notifier Notifier) *ReminderService {
	return &ReminderService{
		bookingRepo: bookingRepo,
		log:         log,
		notifier:    notifier,
	}
}

// Process runs one scan relative to now and returns one summary per
// reminder kind. Bookings are processed sequentially; a failure affects
// only its own tally.
func (s *ReminderService) Process(ctx context.Context, now time.Time) ([]*model.ReminderSummary, error) {
	summaries := make([]*model.ReminderSummary, 0, len(model.ReminderKinds))

	for _, kind := range model.ReminderKinds {
		started := time.Now()

		summary, err := s.processKind(ctx, now, kind)
		if err != nil {
			return nil, fmt.Errorf("reminder scan %s: %w", kind.Type, err)
		}

		prom.ObserveReminderRun(string(kind.Type), time.Since(started).Seconds())

		logger.Info("reminder scan finished",
			"kind", string(kind.Type),
			"processed", summary.Processed,
			"sent", summary.Sent,
			"failed", summary.Failed,
			"skipped", summary.Skipped)

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (s *ReminderService) processKind(ctx context.Context, now time.Time, kind model.ReminderKind) (*model.ReminderSummary, error) {
	summary := &model.ReminderSummary{Kind: kind.Type}

	target := now.Add(kind.Offset)
	bookings, err := s.bookingRepo.ListForEventDate(ctx, target)
	if err != nil {
		return nil, err
	}

	for _, b := range bookings {
		summary.Processed++

		if b.Customer == nil || b.Customer.Mobile == "" {
			summary.Skipped++
			prom.AddReminderOutcome(string(kind.Type), "skipped")
			continue
		}
		if b.Event == nil || b.Event.StartsAt.Before(now) {
			summary.Skipped++
			prom.AddReminderOutcome(string(kind.Type), "skipped")
			continue
		}

		exists, err := s.log.ExistsForBooking(ctx, b.ID, kind.Type)
		if err != nil {
			return nil, fmt.Errorf("check reminder record for booking %d: %w", b.ID, err)
		}
		if exists {
			summary.Skipped++
			prom.AddReminderOutcome(string(kind.Type), "skipped")
			continue
		}

		_, err = s.notifier.Send(ctx, SendParams{
			To:         b.Customer.Mobile,
			Body:       reminderBody(kind, b.Customer, b.Event),
			Type:       kind.Type,
			BookingID:  &b.ID,
			CustomerID: &b.Customer.ID,
		})
		if err != nil {
			summary.Failed++
			prom.AddReminderOutcome(string(kind.Type), "failed")
			logger.Warn("reminder send failed",
				"kind", string(kind.Type),
				"booking_id", b.ID,
				"error", err)
			continue
		}

		summary.Sent++
		prom.AddReminderOutcome(string(kind.Type), "sent")
	}

	return summary, nil
}

func reminderBody(kind model.ReminderKind, c *model.Customer, ev *model.Event) string {
	when := ev.StartsAt.Format("Monday 2 January at 3:04pm")
	if kind.Type == model.SmsTypeReminder24Hr {
		return fmt.Sprintf("Hi %s, a reminder that %s is tomorrow, %s. See you there!", c.FirstName, ev.Title, when)
	}
	return fmt.Sprintf("Hi %s, a reminder that %s is coming up on %s. See you there!", c.FirstName, ev.Title, when)
}
