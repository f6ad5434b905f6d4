package model

import (
	"errors"
	"time"
)

// SmsStatus is the lifecycle state of an SMS message record.
type SmsStatus string

const (
	SmsStatusQueued      SmsStatus = "queued"
	SmsStatusSent        SmsStatus = "sent"
	SmsStatusDelivered   SmsStatus = "delivered"
	SmsStatusUndelivered SmsStatus = "undelivered"
	SmsStatusFailed      SmsStatus = "failed"
	SmsStatusSimulated   SmsStatus = "simulated"
	SmsStatusReceived    SmsStatus = "received"
)

// callbackStatuses is the fixed set the gateway's status callback may
// report. Anything else is rejected.
var callbackStatuses = map[SmsStatus]struct{}{
	SmsStatusQueued:      {},
	SmsStatusSent:        {},
	SmsStatusDelivered:   {},
	SmsStatusUndelivered: {},
	SmsStatusFailed:      {},
}

var ErrUnknownSmsStatus = errors.New("unknown sms status")

// ValidCallbackStatus reports whether s may arrive via the gateway's
// status callback.
func ValidCallbackStatus(s SmsStatus) bool {
	_, ok := callbackStatuses[s]
	return ok
}

// SmsType classifies why a message was sent (or that it was received).
type SmsType string

const (
	SmsTypeConfirmation SmsType = "confirmation"
	SmsTypeCancellation SmsType = "cancellation"
	SmsTypeReminder7Day SmsType = "reminder_7day"
	SmsTypeReminder24Hr SmsType = "reminder_24hr"
	SmsTypeTest         SmsType = "test"
	SmsTypeManual       SmsType = "manual"
	SmsTypeInbound      SmsType = "inbound"
)

type SmsDirection string

const (
	SmsDirectionOutbound SmsDirection = "outbound"
	SmsDirectionInbound  SmsDirection = "inbound"
)

// SmsMessage is the append-only audit log of every message attempt.
// Records are never deleted; deleting a booking archives its records.
type SmsMessage struct {
	ID          int64        `json:"id"          db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	BookingID   *int64       `json:"booking_id"  db:"booking_id"   gorm:"column:booking_id;index"`
	CustomerID  *int64       `json:"customer_id" db:"customer_id"  gorm:"column:customer_id;index"`
	Direction   SmsDirection `json:"direction"   db:"direction"    gorm:"column:direction;not null"`
	Type        SmsType      `json:"type"        db:"type"         gorm:"column:type;not null;index"`
	Recipient   string       `json:"recipient"   db:"recipient"    gorm:"column:recipient;not null"` // sender for inbound
	Body        string       `json:"body"        db:"body"         gorm:"column:body;not null"`
	Status      SmsStatus    `json:"status"      db:"status"       gorm:"column:status;not null;index"`
	MessageSid  string       `json:"message_sid" db:"message_sid"  gorm:"column:message_sid;index"`
	ErrorDetail string       `json:"error_detail,omitempty" db:"error_detail" gorm:"column:error_detail"`
	Archived    bool         `json:"archived"    db:"archived"     gorm:"column:archived;not null;default:false"`
	CreatedAt   time.Time    `json:"created_at"  db:"created_at"   gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `json:"updated_at"  db:"updated_at"   gorm:"column:updated_at;autoUpdateTime"`
}

func (SmsMessage) TableName() string { return "sms_messages" }

// SmsFilter controls List queries.
type SmsFilter struct {
	BookingID       *int64
	CustomerID      *int64
	Types           []SmsType
	Statuses        []SmsStatus
	Direction       *SmsDirection
	From            *time.Time
	To              *time.Time
	IncludeArchived bool
	Limit           int  // default 50
	Offset          int
	Desc            bool // order by created_at
}

// ReminderKind is one of the two fixed offsets before an event at which
// a reminder SMS is due.
type ReminderKind struct {
	Type   SmsType
	Offset time.Duration
}

var (
	ReminderSevenDay = ReminderKind{Type: SmsTypeReminder7Day, Offset: 7 * 24 * time.Hour}
	ReminderOneDay   = ReminderKind{Type: SmsTypeReminder24Hr, Offset: 24 * time.Hour}
)

// ReminderKinds is scanned in order on every run.
var ReminderKinds = []ReminderKind{ReminderSevenDay, ReminderOneDay}

// ReminderSummary tallies one scan for one reminder kind. Failures are
// counted, not retried within the run.
type ReminderSummary struct {
	Kind      SmsType `json:"kind"`
	Processed int     `json:"processed"`
	Sent      int     `json:"sent"`
	Failed    int     `json:"failed"`
	Skipped   int     `json:"skipped"`
}
