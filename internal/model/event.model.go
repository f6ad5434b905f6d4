package model

import (
	"errors"
	"time"
)

var (
	ErrEmptyTitle      = errors.New("event title is required")
	ErrInvalidCapacity = errors.New("event capacity must be a positive integer")
	ErrMissingStart    = errors.New("event start time is required")
)

type Event struct {
	ID          int64     `json:"id"          db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	Title       string    `json:"title"       db:"title"        gorm:"column:title;not null"`
	Description string    `json:"description" db:"description"  gorm:"column:description"`
	StartsAt    time.Time `json:"starts_at"   db:"starts_at"    gorm:"column:starts_at;not null;index"`
	Capacity    int       `json:"capacity"    db:"capacity"     gorm:"column:capacity;not null"`
	CategoryID  *int64    `json:"category_id" db:"category_id"  gorm:"column:category_id;index"`
	Published   bool      `json:"published"   db:"published"    gorm:"column:published;not null;default:false"`
	Canceled    bool      `json:"canceled"    db:"canceled"     gorm:"column:canceled;not null;default:false"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"   gorm:"column:created_at;autoCreateTime"`
}

func (Event) TableName() string { return "events" }

// EventCategory gives events a standard set of defaults (quiz night,
// tasting, live music, ...) so staff don't re-type capacity and start
// time for recurring formats.
type EventCategory struct {
	ID              int64  `json:"id"               db:"id"                gorm:"primaryKey;autoIncrement;column:id"`
	Name            string `json:"name"             db:"name"              gorm:"column:name;not null;unique"`
	DefaultCapacity int    `json:"default_capacity" db:"default_capacity"  gorm:"column:default_capacity"`
	DefaultStart    string `json:"default_start"    db:"default_start"     gorm:"column:default_start"` // "19:00"
}

func (EventCategory) TableName() string { return "event_categories" }

type EventCreateRequest struct {
	Title       string
	Description string
	StartsAt    time.Time
	Capacity    int
	CategoryID  *int64
	Published   bool
}

func (p EventCreateRequest) Validate() error {
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if p.StartsAt.IsZero() {
		return ErrMissingStart
	}
	if p.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// EventFilter controls List queries.
type EventFilter struct {
	CategoryID      *int64
	From            *time.Time
	To              *time.Time
	PublishedOnly   bool
	IncludeCanceled bool
	Limit           int  // default 50
	Offset          int
	Desc            bool // order by starts_at
}
