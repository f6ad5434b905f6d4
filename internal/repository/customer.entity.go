package repository

import (
	"time"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
)

type CustomerEntity struct {
	ID        int64     `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	FirstName string    `db:"first_name" gorm:"column:first_name;not null"`
	LastName  string    `db:"last_name"  gorm:"column:last_name"`
	Mobile    string    `db:"mobile"     gorm:"column:mobile;index"`
	Notes     string    `db:"notes"      gorm:"column:notes"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Mobile:    m.Mobile,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Mobile:    e.Mobile,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	if entities == nil {
		return nil
	}
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}
