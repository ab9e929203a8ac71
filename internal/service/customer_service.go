package service

import (
	"context"
	"strings"

	"jewel-erp/internal/apperr"
	"jewel-erp/internal/model"
	"jewel-erp/internal/repository"
)

var ErrMobileExists = apperr.InvalidState("a customer with this mobile number already exists")

type CustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Mobile  string `json:"mobile" validate:"required,mobile"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`
}

type CustomerService interface {
	List(ctx context.Context) ([]model.Customer, error)
	Get(ctx context.Context, id uint) (*model.Customer, error)
	Create(ctx context.Context, req *CustomerRequest, actor Actor) (*model.Customer, error)
	Update(ctx context.Context, id uint, req *CustomerRequest, actor Actor) (*model.Customer, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) List(ctx context.Context) ([]model.Customer, error) {
	return s.repo.FindAll(ctx)
}

func (s *customerService) Get(ctx context.Context, id uint) (*model.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "customer not found with id: %d", id)
	}
	return c, nil
}

// ensureMobileFree fails when another customer than self owns mobile.
func (s *customerService) ensureMobileFree(ctx context.Context, mobile string, self uint) error {
	existing, err := s.repo.FindByMobile(ctx, mobile)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return ErrMobileExists
	}
	return nil
}

func (s *customerService) Create(ctx context.Context, req *CustomerRequest, actor Actor) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	mobile := normalizeMobile(req.Mobile)
	if err := s.ensureMobileFree(ctx, mobile, 0); err != nil {
		return nil, err
	}

	c := &model.Customer{
		Name:    strings.TrimSpace(req.Name),
		Mobile:  mobile,
		Email:   req.Email,
		Address: req.Address,
		GSTIN:   req.GSTIN,
	}
	c.Touch(actor.ID)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Update(ctx context.Context, id uint, req *CustomerRequest, actor Actor) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	mobile := normalizeMobile(req.Mobile)
	if err := s.ensureMobileFree(ctx, mobile, id); err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Mobile = mobile
	c.Email = req.Email
	c.Address = req.Address
	c.GSTIN = req.GSTIN
	c.Touch(actor.ID)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
