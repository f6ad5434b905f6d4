package repository

import (
	"context"
	"errors"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrEventNotFound is returned when an event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrCategoryNotFound is returned when an event category does not exist.
	ErrCategoryNotFound = errors.New("event category not found")
)

type EventRepository struct {
	*pg.DB
}

func NewEventRepository(db *pg.DB) *EventRepository {
	return &EventRepository{
		db,
	}
}

func (r *EventRepository) Create(ctx context.Context, ev *model.Event) (*model.Event, error) {
	entity := toEventEntity(ev)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toEventModel(entity), nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	var entity EventEntity
	err := r.Read(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return toEventModel(&entity), nil
}

func (r *EventRepository) Update(ctx context.Context, ev *model.Event) (*model.Event, error) {
	entity := toEventEntity(ev)

	res := r.Write(ctx).Model(&EventEntity{}).Where("id = ?", entity.ID).Updates(map[string]any{
		"title":       entity.Title,
		"description": entity.Description,
		"starts_at":   entity.StartsAt,
		"capacity":    entity.Capacity,
		"category_id": entity.CategoryID,
		"published":   entity.Published,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrEventNotFound
	}
	return r.GetByID(ctx, entity.ID)
}

// SetCanceled flips the canceled flag. Cancellation is one-way; there is
// no un-cancel in the admin surface.
func (r *EventRepository) SetCanceled(ctx context.Context, id int64) error {
	res := r.Write(ctx).Model(&EventEntity{}).Where("id = ?", id).Update("canceled", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) List(ctx context.Context, f model.EventFilter) ([]*model.Event, int64, error) {
	q := r.Read(ctx).Model(&EventEntity{})

	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.From != nil {
		q = q.Where("starts_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("starts_at < ?", *f.To)
	}
	if f.PublishedOnly {
		q = q.Where("published = ?", true)
	}
	if !f.IncludeCanceled {
		q = q.Where("canceled = ?", false)
	}

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "starts_at"
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

	var entities []*EventEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toEventModels(entities), total, nil
}

func (r *EventRepository) GetCategory(ctx context.Context, id int64) (*model.EventCategory, error) {
	var entity EventCategoryEntity
	err := r.Read(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return toEventCategoryModel(&entity), nil
}

func (r *EventRepository) ListCategories(ctx context.Context) ([]*model.EventCategory, error) {
	var entities []*EventCategoryEntity
	if err := r.Read(ctx).Order("name").Find(&entities).Error; err != nil {
		return nil, err
	}
	out := make([]*model.EventCategory, len(entities))
	for i, e := range entities {
		out[i] = toEventCategoryModel(e)
	}
	return out, nil
}
