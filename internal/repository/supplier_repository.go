package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/numbering"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

const supplierColumns = `
	id,
	code,
	name,
	contact_person,
	phone,
	email,
	created_at,
	updated_at`

func (r *SupplierRepository) List(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Raw(`
		SELECT` + supplierColumns + `
		FROM suppliers
		ORDER BY id DESC
	`).Scan(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *SupplierRepository) Get(ctx context.Context, id int) (*model.Supplier, error) {
	var supplier model.Supplier
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+supplierColumns+`
		FROM suppliers
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&supplier).Error
	if err != nil {
		return nil, err
	}
	if supplier.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &supplier, nil
}

func (r *SupplierRepository) Create(ctx context.Context, supplier model.Supplier) (*model.Supplier, error) {
	var saved model.Supplier
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := nextCode(tx, "suppliers", "code", numbering.KindSupplier, time.Now())
		if err != nil {
			return err
		}
		return tx.Raw(`
			INSERT INTO suppliers (code, name, contact_person, phone, email)
			VALUES (?, ?, ?, ?, ?)
			RETURNING`+supplierColumns,
			code, supplier.Name, supplier.ContactPerson, supplier.Phone, supplier.Email,
		).Scan(&saved).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
