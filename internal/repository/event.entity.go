package repository

import (
	"time"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
)

type EventEntity struct {
	ID          int64     `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	Title       string    `db:"title"       gorm:"column:title;not null"`
	Description string    `db:"description" gorm:"column:description"`
	StartsAt    time.Time `db:"starts_at"   gorm:"column:starts_at;not null;index"`
	Capacity    int       `db:"capacity"    gorm:"column:capacity;not null"`
	CategoryID  *int64    `db:"category_id" gorm:"column:category_id;index"`
	Published   bool      `db:"published"   gorm:"column:published;not null;default:false"`
	Canceled    bool      `db:"canceled"    gorm:"column:canceled;not null;default:false"`
	CreatedAt   time.Time `db:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (EventEntity) TableName() string {
	return "events"
}

type EventCategoryEntity struct {
	ID              int64  `db:"id"               gorm:"primaryKey;autoIncrement;column:id"`
	Name            string `db:"name"             gorm:"column:name;not null;unique"`
	DefaultCapacity int    `db:"default_capacity" gorm:"column:default_capacity"`
	DefaultStart    string `db:"default_start"    gorm:"column:default_start"`
}

func (EventCategoryEntity) TableName() string {
	return "event_categories"
}

func toEventEntity(m *model.Event) *EventEntity {
	if m == nil {
		return nil
	}
	return &EventEntity{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		StartsAt:    m.StartsAt,
		Capacity:    m.Capacity,
		CategoryID:  m.CategoryID,
		Published:   m.Published,
		Canceled:    m.Canceled,
		CreatedAt:   m.CreatedAt,
	}
}

func toEventModel(e *EventEntity) *model.Event {
	if e == nil {
		return nil
	}
	return &model.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartsAt:    e.StartsAt,
		Capacity:    e.Capacity,
		CategoryID:  e.CategoryID,
		Published:   e.Published,
		Canceled:    e.Canceled,
		CreatedAt:   e.CreatedAt,
	}
}

func toEventModels(entities []*EventEntity) []*model.Event {
	if entities == nil {
		return nil
	}
	models := make([]*model.Event, len(entities))
	for i, e := range entities {
		models[i] = toEventModel(e)
	}
	return models
}

func toEventCategoryModel(e *EventCategoryEntity) *model.EventCategory {
	if e == nil {
		return nil
	}
	return &model.EventCategory{
		ID:              e.ID,
		Name:            e.Name,
		DefaultCapacity: e.DefaultCapacity,
		DefaultStart:    e.DefaultStart,
	}
}
