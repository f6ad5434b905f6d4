package repository

import (
	"time"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
)

type SmsMessageEntity struct {
	ID          int64     `db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	BookingID   *int64    `db:"booking_id"   gorm:"column:booking_id;index"`
	CustomerID  *int64    `db:"customer_id"  gorm:"column:customer_id;index"`
	Direction   string    `db:"direction"    gorm:"column:direction;not null"`
	Type        string    `db:"type"         gorm:"column:type;not null;index"`
	Recipient   string    `db:"recipient"    gorm:"column:recipient;not null"`
	Body        string    `db:"body"         gorm:"column:body;not null"`
	Status      string    `db:"status"       gorm:"column:status;not null;index"`
	MessageSid  string    `db:"message_sid"  gorm:"column:message_sid;index"`
	ErrorDetail string    `db:"error_detail" gorm:"column:error_detail"`
	Archived    bool      `db:"archived"     gorm:"column:archived;not null;default:false"`
	CreatedAt   time.Time `db:"created_at"   gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `db:"updated_at"   gorm:"column:updated_at;autoUpdateTime"`
}

func (SmsMessageEntity) TableName() string {
	return "sms_messages"
}

func toSmsMessageEntity(m *model.SmsMessage) *SmsMessageEntity {
	if m == nil {
		return nil
	}
	return &SmsMessageEntity{
		ID:          m.ID,
		BookingID:   m.BookingID,
		CustomerID:  m.CustomerID,
		Direction:   string(m.Direction),
		Type:        string(m.Type),
		Recipient:   m.Recipient,
		Body:        m.Body,
		Status:      string(m.Status),
		MessageSid:  m.MessageSid,
		ErrorDetail: m.ErrorDetail,
		Archived:    m.Archived,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toSmsMessageModel(e *SmsMessageEntity) *model.SmsMessage {
	if e == nil {
		return nil
	}
	return &model.SmsMessage{
		ID:          e.ID,
		BookingID:   e.BookingID,
		CustomerID:  e.CustomerID,
		Direction:   model.SmsDirection(e.Direction),
		Type:        model.SmsType(e.Type),
		Recipient:   e.Recipient,
		Body:        e.Body,
		Status:      model.SmsStatus(e.Status),
		MessageSid:  e.MessageSid,
		ErrorDetail: e.ErrorDetail,
		Archived:    e.Archived,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toSmsMessageModels(entities []*SmsMessageEntity) []*model.SmsMessage {
	if entities == nil {
		return nil
	}
	models := make([]*model.SmsMessage, len(entities))
	for i, e := range entities {
		models[i] = toSmsMessageModel(e)
	}
	return models
}
