package repository

import (
	"context"
	"errors"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrCustomerNotFound is returned when a customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrCustomerHasBookings is returned when deletion would orphan bookings.
	ErrCustomerHasBookings = errors.New("customer has bookings")
)

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(c)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

// GetByMobile looks up a customer by a normalized mobile number. Used to
// link inbound messages back to the customer who sent them.
func (r *CustomerRepository) GetByMobile(ctx context.Context, mobile string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).First(&entity, "mobile = ?", mobile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(c)

	res := r.Write(ctx).Model(&CustomerEntity{}).Where("id = ?", entity.ID).Updates(map[string]any{
		"first_name": entity.FirstName,
		"last_name":  entity.LastName,
		"mobile":     entity.Mobile,
		"notes":      entity.Notes,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrCustomerNotFound
	}
	return r.GetByID(ctx, entity.ID)
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	var bookings int64
	if err := r.Read(ctx).Model(&BookingEntity{}).Where("customer_id = ?", id).Count(&bookings).Error; err != nil {
		return err
	}
	if bookings > 0 {
		return ErrCustomerHasBookings
	}

	res := r.Write(ctx).Delete(&CustomerEntity{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*model.Customer, int64, error) {
	q := r.Read(ctx).Model(&CustomerEntity{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var entities []*CustomerEntity
	if err := q.Order("last_name, first_name").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toCustomerModels(entities), total, nil
}

func (r *CustomerRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.DB.WithinTransaction(ctx, fn)
}
