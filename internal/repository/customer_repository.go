package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/numbering"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `
	id,
	code,
	name,
	postal_code,
	address,
	phone,
	email,
	created_at,
	updated_at`

func (r *CustomerRepository) List(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Raw(`
		SELECT` + customerColumns + `
		FROM customers
		ORDER BY id DESC
	`).Scan(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+customerColumns+`
		FROM customers
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &customer, nil
}

// Create mints the CS code and inserts in one transaction so the max-code
// read shares the insert's snapshot.
func (r *CustomerRepository) Create(ctx context.Context, customer model.Customer) (*model.Customer, error) {
	var saved model.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := nextCode(tx, "customers", "code", numbering.KindCustomer, time.Now())
		if err != nil {
			return err
		}
		return tx.Raw(`
			INSERT INTO customers (code, name, postal_code, address, phone, email)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING`+customerColumns,
			code, customer.Name, customer.PostalCode, customer.Address,
			customer.Phone, customer.Email,
		).Scan(&saved).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
