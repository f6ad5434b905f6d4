package services

import (
	"context"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
)

type CustomerStore interface {
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	Update(ctx context.Context, c *model.Customer) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*model.Customer, int64, error)
}

type CustomerService struct {
	customerRepo CustomerStore
}

func NewCustomerService(customerRepo CustomerStore) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Create validates the request and normalizes the mobile number before
// persisting. An empty mobile is allowed.
func (s *CustomerService) Create(ctx context.Context, p model.CustomerCreateRequest) (*model.Customer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	mobile := ""
	if p.Mobile != "" {
		normalized, err := model.NormalizeUKMobile(p.Mobile)
		if err != nil {
			return nil, err
		}
		mobile = normalized
	}

	c := &model.Customer{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Mobile:    mobile,
		Notes:     p.Notes,
	}
	return s.customerRepo.Create(ctx, c)
}

func (s *CustomerService) Update(ctx context.Context, id int64, p model.CustomerCreateRequest) (*model.Customer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mobile := ""
	if p.Mobile != "" {
		normalized, err := model.NormalizeUKMobile(p.Mobile)
		if err != nil {
			return nil, err
		}
		mobile = normalized
	}

	existing.FirstName = p.FirstName
	existing.LastName = p.LastName
	existing.Mobile = mobile
	existing.Notes = p.Notes

	return s.customerRepo.Update(ctx, existing)
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.customerRepo.Delete(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, limit, offset int) ([]*model.Customer, int64, error) {
	return s.customerRepo.List(ctx, limit, offset)
}
