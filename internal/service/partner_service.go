package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

type CustomerStore interface {
	List(ctx context.Context) ([]model.Customer, error)
	Get(ctx context.Context, id int) (*model.Customer, error)
	Create(ctx context.Context, customer model.Customer) (*model.Customer, error)
}

type SupplierStore interface {
	List(ctx context.Context) ([]model.Supplier, error)
	Get(ctx context.Context, id int) (*model.Supplier, error)
	Create(ctx context.Context, supplier model.Supplier) (*model.Supplier, error)
}

// PartnerService covers the thin master-data surface the document flows
// depend on: code-generating creation and picker lists.
type PartnerService struct {
	customers CustomerStore
	suppliers SupplierStore
}

func NewPartnerService(customers CustomerStore, suppliers SupplierStore) *PartnerService {
	return &PartnerService{customers: customers, suppliers: suppliers}
}

type CustomerInput struct {
	Name       string
	PostalCode string
	Address    string
	Phone      string
	Email      string
}

type SupplierInput struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
}

func (s *PartnerService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.customers.List(ctx)
}

func (s *PartnerService) CreateCustomer(ctx context.Context, input CustomerInput) (*model.Customer, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	return s.customers.Create(ctx, model.Customer{
		Name:       input.Name,
		PostalCode: input.PostalCode,
		Address:    input.Address,
		Phone:      input.Phone,
		Email:      input.Email,
	})
}

func (s *PartnerService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *PartnerService) CreateSupplier(ctx context.Context, input SupplierInput) (*model.Supplier, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: supplier name is required", ErrInvalidInput)
	}
	return s.suppliers.Create(ctx, model.Supplier{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
	})
}

func (s *PartnerService) GetSupplier(ctx context.Context, id int) (*model.Supplier, error) {
	supplier, err := s.suppliers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: supplier %d", ErrNotFound, id)
		}
		return nil, err
	}
	return supplier, nil
}
