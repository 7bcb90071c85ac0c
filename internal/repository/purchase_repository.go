package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/numbering"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/reconcile"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/tax"
)

type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

const purchaseOrderColumns = `
	id,
	order_number AS number,
	supplier_id,
	project_id,
	order_date,
	expected_date,
	tax_mode,
	subtotal,
	tax_amount,
	total_amount,
	status,
	approval_status,
	notes,
	created_by,
	updated_by,
	created_at,
	updated_at`

func (r *PurchaseOrderRepository) List(ctx context.Context) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.WithContext(ctx).Raw(`
		SELECT` + purchaseOrderColumns + `
		FROM purchase_orders
		ORDER BY id DESC
	`).Scan(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PurchaseOrderRepository) Get(ctx context.Context, id int) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+purchaseOrderColumns+`
		FROM purchase_orders
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &order, nil
}

func (r *PurchaseOrderRepository) ListDetails(ctx context.Context, orderID int) ([]model.PurchaseOrderDetail, error) {
	var details []model.PurchaseOrderDetail
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			purchase_order_id,
			product_id,
			quantity,
			unit,
			unit_price,
			tax_rate,
			amount,
			created_at,
			updated_at
		FROM purchase_order_details
		WHERE purchase_order_id = ?
		ORDER BY id ASC
	`, orderID).Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *PurchaseOrderRepository) MaxDetailID(ctx context.Context) (int, error) {
	var maxID int
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(id), 0) FROM purchase_order_details`,
	).Scan(&maxID).Error
	if err != nil {
		return 0, err
	}
	return maxID, nil
}

// CreateWithDetails mints the PO code and writes the header plus its lines
// in one transaction.
func (r *PurchaseOrderRepository) CreateWithDetails(ctx context.Context, order model.PurchaseOrder, plan reconcile.Plan) (*model.PurchaseOrder, error) {
	var saved model.PurchaseOrder
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextCode(tx, "purchase_orders", "order_number", numbering.KindPurchaseOrder, time.Now())
		if err != nil {
			return err
		}

		err = tx.Raw(`
			INSERT INTO purchase_orders (
				order_number, supplier_id, project_id, order_date, expected_date,
				tax_mode, subtotal, tax_amount, total_amount, status, approval_status,
				notes, created_by, updated_by
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING`+purchaseOrderColumns,
			number, order.SupplierID, order.ProjectID, order.OrderDate, order.ExpectedDate,
			order.TaxMode, order.Subtotal, order.TaxAmount, order.TotalAmount,
			order.Status, order.ApprovalStatus, order.Notes, order.CreatedBy, order.UpdatedBy,
		).Scan(&saved).Error
		if err != nil {
			return err
		}

		for _, line := range plan.Inserts {
			productID, err := ensureProduct(tx, line.ProductID, line.ProductName, line.UnitPrice)
			if err != nil {
				return err
			}
			err = tx.Exec(`
				INSERT INTO purchase_order_details (id, purchase_order_id, product_id, quantity, unit, unit_price, tax_rate, amount)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, line.DetailID, saved.ID, productID, line.Quantity, line.Unit,
				line.UnitPrice, tax.RatePercent, line.Amount,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// SaveWithDetails applies a header update plus a reconciliation plan
// atomically, same shape as the quotation/invoice flow.
func (r *PurchaseOrderRepository) SaveWithDetails(ctx context.Context, order model.PurchaseOrder, plan reconcile.Plan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`
			UPDATE purchase_orders
			SET
				supplier_id = ?,
				project_id = ?,
				order_date = ?,
				expected_date = ?,
				tax_mode = ?,
				subtotal = ?,
				tax_amount = ?,
				total_amount = ?,
				status = ?,
				notes = ?,
				updated_by = ?,
				updated_at = NOW()
			WHERE id = ?
		`, order.SupplierID, order.ProjectID, order.OrderDate, order.ExpectedDate,
			order.TaxMode, order.Subtotal, order.TaxAmount, order.TotalAmount,
			order.Status, order.Notes, order.UpdatedBy, order.ID,
		).Error
		if err != nil {
			return err
		}

		for _, line := range plan.Updates {
			productID, err := ensureProduct(tx, line.ProductID, line.ProductName, line.UnitPrice)
			if err != nil {
				return err
			}
			err = tx.Exec(`
				UPDATE purchase_order_details
				SET
					product_id = ?,
					quantity = ?,
					unit = ?,
					unit_price = ?,
					amount = ?,
					updated_at = NOW()
				WHERE id = ? AND purchase_order_id = ?
			`, productID, line.Quantity, line.Unit, line.UnitPrice, line.Amount,
				line.DetailID, order.ID,
			).Error
			if err != nil {
				return err
			}
		}

		for _, line := range plan.Inserts {
			productID, err := ensureProduct(tx, line.ProductID, line.ProductName, line.UnitPrice)
			if err != nil {
				return err
			}
			err = tx.Exec(`
				INSERT INTO purchase_order_details (id, purchase_order_id, product_id, quantity, unit, unit_price, tax_rate, amount)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, line.DetailID, order.ID, productID, line.Quantity, line.Unit,
				line.UnitPrice, tax.RatePercent, line.Amount,
			).Error
			if err != nil {
				return err
			}
		}

		if len(plan.DeleteIDs) > 0 {
			err = tx.Exec(`
				DELETE FROM purchase_order_details WHERE purchase_order_id = ? AND id IN (?)
			`, order.ID, plan.DeleteIDs).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SetApproval flips the approval state machine without touching the
// lifecycle status.
func (r *PurchaseOrderRepository) SetApproval(ctx context.Context, id int, status model.ApprovalStatus, updatedBy int) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE purchase_orders
		SET approval_status = ?, updated_by = ?, updated_at = NOW()
		WHERE id = ?
	`, status, updatedBy, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PurchaseOrderRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM purchase_orders WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
