package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gateway "github.com/peterjpitcher/eventplanner2.0-sub000/internal/gateways"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/logger"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/prom"
)

var (
	// ErrSmsDisabled means the configuration gate is closed: messaging is
	// switched off or the gateway credentials are absent. Callers treat it
	// as "not sent", never as a business failure.
	ErrSmsDisabled = errors.New("sms sending is disabled")
	ErrEmptyBody   = errors.New("message body cannot be empty")
)

type SmsMessageRepository interface {
	Create(ctx context.Context, msg *model.SmsMessage) (*model.SmsMessage, error)
	GetBySid(ctx context.Context, sid string) (*model.SmsMessage, error)
	UpdateStatusBySid(ctx context.Context, sid string, status model.SmsStatus) error
	List(ctx context.Context, f model.SmsFilter) ([]*model.SmsMessage, int64, error)
}

type CustomerLookup interface {
	GetByMobile(ctx context.Context, mobile string) (*model.Customer, error)
}

// SmsSender is the outbound edge; *gateway.Client satisfies it.
type SmsSender interface {
	Send(ctx context.Context, r *gateway.SendRequest) (*gateway.SendResponse, error)
}

// SendParams describes one outbound message.
type SendParams struct {
	To         string
	Body       string
	Type       model.SmsType
	BookingID  *int64
	CustomerID *int64
}

// NotificationService is the single path every outbound SMS takes. Each
// attempt, successful or not, leaves a row in the message log; the log is
// the audit trail and the reminder scanner's idempotence source.
type NotificationService struct {
	messageRepo  SmsMessageRepository
	customerRepo CustomerLookup
	sender       SmsSender // nil when credentials are absent
	enabled      bool
	simulate     bool
	from         string
}

func NewNotificationService(messageRepo SmsMessageRepository, customerRepo CustomerLookup, sender SmsSender, enabled, simulate bool, from string) *NotificationService {
	return &NotificationService{
		messageRepo:  messageRepo,
		customerRepo: customerRepo,
		sender:       sender,
		enabled:      enabled,
		simulate:     simulate,
		from:         from,
	}
}

// Send dispatches one message. The configuration gate is checked first;
// in simulation mode the gateway is never contacted and a synthetic
// success is recorded instead. The returned error describes the send
// outcome only; the message record is written regardless.
func (s *NotificationService) Send(ctx context.Context, p SendParams) (*model.SmsMessage, error) {
	if !s.enabled {
		return nil, ErrSmsDisabled
	}
	if !s.simulate && s.sender == nil {
		return nil, ErrSmsDisabled
	}

	body := strings.TrimSpace(p.Body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	to, err := model.NormalizeUKMobile(p.To)
	if err != nil {
		return nil, err
	}

	if s.simulate {
		rec := &model.SmsMessage{
			BookingID:  p.BookingID,
			CustomerID: p.CustomerID,
			Direction:  model.SmsDirectionOutbound,
			Type:       p.Type,
			Recipient:  to,
			Body:       body,
			Status:     model.SmsStatusSimulated,
			MessageSid: simulatedSid(),
		}
		created, err := s.messageRepo.Create(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("record simulated message: %w", err)
		}
		prom.AddSmsAttempt(string(p.Type), string(model.SmsStatusSimulated))
		logger.Info("sms simulated", "to", to, "type", string(p.Type), "sid", created.MessageSid)
		return created, nil
	}

	resp, sendErr := s.sender.Send(ctx, &gateway.SendRequest{
		To:   to,
		From: s.from,
		Body: body,
	})

	rec := &model.SmsMessage{
		BookingID:  p.BookingID,
		CustomerID: p.CustomerID,
		Direction:  model.SmsDirectionOutbound,
		Type:       p.Type,
		Recipient:  to,
		Body:       body,
	}
	if sendErr != nil {
		rec.Status = model.SmsStatusFailed
		rec.ErrorDetail = sendErr.Error()
		if resp != nil {
			rec.MessageSid = resp.Sid
		}
	} else {
		rec.Status = model.SmsStatusQueued
		rec.MessageSid = resp.Sid
	}

	created, err := s.messageRepo.Create(ctx, rec)
	if err != nil {
		// the audit row failed to write; the send outcome still stands
		logger.Error("failed to record sms attempt", "to", to, "type", string(p.Type), "error", err)
		if sendErr != nil {
			return nil, sendErr
		}
		return nil, err
	}

	prom.AddSmsAttempt(string(p.Type), string(rec.Status))

	if sendErr != nil {
		logger.Warn("sms send failed", "to", to, "type", string(p.Type), "error", sendErr)
		return created, sendErr
	}

	return created, nil
}

// SendTest sends a fixed test message to an arbitrary number.
func (s *NotificationService) SendTest(ctx context.Context, to string) (*model.SmsMessage, error) {
	return s.Send(ctx, SendParams{
		To:   to,
		Body: "This is a test message from the Event Planner.",
		Type: model.SmsTypeTest,
	})
}

// HandleStatusCallback overwrites the status of the record matching the
// gateway-assigned identifier. Unknown status values are rejected.
func (s *NotificationService) HandleStatusCallback(ctx context.Context, sid string, status model.SmsStatus) error {
	if sid == "" {
		return ErrNotFound
	}
	if !model.ValidCallbackStatus(status) {
		return model.ErrUnknownSmsStatus
	}
	return s.messageRepo.UpdateStatusBySid(ctx, sid, status)
}

// RecordInbound appends an inbound message and links it to a customer
// when the sender's number matches one.
func (s *NotificationService) RecordInbound(ctx context.Context, from, body string) (*model.SmsMessage, error) {
	sender := from
	if normalized, err := model.NormalizeUKMobile(from); err == nil {
		sender = normalized
	}

	rec := &model.SmsMessage{
		Direction: model.SmsDirectionInbound,
		Type:      model.SmsTypeInbound,
		Recipient: sender,
		Body:      body,
		Status:    model.SmsStatusReceived,
	}

	if customer, err := s.customerRepo.GetByMobile(ctx, sender); err == nil {
		rec.CustomerID = &customer.ID
	}

	return s.messageRepo.Create(ctx, rec)
}

func (s *NotificationService) List(ctx context.Context, f model.SmsFilter) ([]*model.SmsMessage, int64, error) {
	return s.messageRepo.List(ctx, f)
}

func simulatedSid() string {
	return "SM" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
