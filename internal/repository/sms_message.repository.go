package repository

import (
	"context"
	"errors"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrMessageNotFound is returned when an SMS message record does not exist.
	ErrMessageNotFound = errors.New("sms message not found")
)

type SmsMessageRepository struct {
	*pg.DB
}

func NewSmsMessageRepository(db *pg.DB) *SmsMessageRepository {
	return &SmsMessageRepository{
		db,
	}
}

func (r *SmsMessageRepository) Create(ctx context.Context, msg *model.SmsMessage) (*model.SmsMessage, error) {
	entity := toSmsMessageEntity(msg)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toSmsMessageModel(entity), nil
}

func (r *SmsMessageRepository) GetBySid(ctx context.Context, sid string) (*model.SmsMessage, error) {
	var entity SmsMessageEntity
	err := r.Read(ctx).First(&entity, "message_sid = ?", sid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return toSmsMessageModel(&entity), nil
}

// UpdateStatusBySid overwrites the status of the record carrying the
// gateway-assigned identifier. Driven by the delivery-status callback.
func (r *SmsMessageRepository) UpdateStatusBySid(ctx context.Context, sid string, status model.SmsStatus) error {
	res := r.Write(ctx).Model(&SmsMessageEntity{}).
		Where("message_sid = ?", sid).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// ArchiveByBooking soft-archives every record tied to a booking. Message
// records are an audit log and are never deleted.
func (r *SmsMessageRepository) ArchiveByBooking(ctx context.Context, bookingID int64) error {
	return r.Write(ctx).Model(&SmsMessageEntity{}).
		Where("booking_id = ?", bookingID).
		Update("archived", true).Error
}

// ExistsForBooking reports whether a non-archived record of the given type
// already exists for the booking. The reminder scanner's idempotence rests
// on this check.
func (r *SmsMessageRepository) ExistsForBooking(ctx context.Context, bookingID int64, t model.SmsType) (bool, error) {
	var count int64
	err := r.Read(ctx).Model(&SmsMessageEntity{}).
		Where("booking_id = ?", bookingID).
		Where("type = ?", string(t)).
		Where("archived = ?", false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SmsMessageRepository) List(ctx context.Context, f model.SmsFilter) ([]*model.SmsMessage, int64, error) {
	q := r.Read(ctx).Model(&SmsMessageEntity{})

	if f.BookingID != nil {
		q = q.Where("booking_id = ?", *f.BookingID)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if len(f.Types) > 0 {
		types := make([]string, len(f.Types))
		for i, t := range f.Types {
			types[i] = string(t)
		}
		q = q.Where("type IN ?", types)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.Direction != nil {
		q = q.Where("direction = ?", string(*f.Direction))
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	if !f.IncludeArchived {
		q = q.Where("archived = ?", false)
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

	var entities []*SmsMessageEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toSmsMessageModels(entities), total, nil
}
