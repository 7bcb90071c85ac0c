package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/numbering"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/reconcile"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/tax"
)

// DocumentRepository serves both quotations and invoices; the two tables are
// structurally parallel and selected per call by model.DocumentType.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

type docTables struct {
	header    string
	detail    string
	numberCol string
	fkCol     string
	expiryCol string
}

func tablesFor(t model.DocumentType) docTables {
	if t == model.DocumentTypeInvoice {
		return docTables{
			header:    "invoices",
			detail:    "invoice_details",
			numberCol: "invoice_number",
			fkCol:     "invoice_id",
			expiryCol: "due_date",
		}
	}
	return docTables{
		header:    "quotations",
		detail:    "quotation_details",
		numberCol: "quotation_number",
		fkCol:     "quotation_id",
		expiryCol: "valid_until",
	}
}

func (tb docTables) headerColumns() string {
	return fmt.Sprintf(`
		id,
		%s AS number,
		project_id,
		issue_date,
		%s AS expiry_date,
		tax_mode,
		subtotal,
		tax_amount,
		total_amount,
		status,
		notes,
		created_by,
		updated_by,
		created_at,
		updated_at`, tb.numberCol, tb.expiryCol)
}

func (r *DocumentRepository) List(ctx context.Context, t model.DocumentType) ([]model.DocumentListItem, error) {
	tb := tablesFor(t)
	var items []model.DocumentListItem
	err := r.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT
			d.id,
			d.%s AS number,
			d.project_id,
			p.name AS project_name,
			c.name AS customer_name,
			d.issue_date,
			d.total_amount,
			d.status
		FROM %s d
		JOIN projects p ON p.id = d.project_id
		JOIN customers c ON c.id = p.customer_id
		ORDER BY d.id DESC
	`, tb.numberCol, tb.header)).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *DocumentRepository) GetByProject(ctx context.Context, t model.DocumentType, projectID int) (*model.Document, error) {
	tb := tablesFor(t)
	var doc model.Document
	err := r.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT %s FROM %s WHERE project_id = ? LIMIT 1
	`, tb.headerColumns(), tb.header), projectID).Scan(&doc).Error
	if err != nil {
		return nil, err
	}
	if doc.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	doc.Type = t
	return &doc, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, t model.DocumentType, id int) (*model.Document, error) {
	tb := tablesFor(t)
	var doc model.Document
	err := r.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = ? LIMIT 1
	`, tb.headerColumns(), tb.header), id).Scan(&doc).Error
	if err != nil {
		return nil, err
	}
	if doc.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	doc.Type = t
	return &doc, nil
}

// GetView joins the header with its project, customer and line items.
// Customer fields are coalesced so missing values render as empty strings.
func (r *DocumentRepository) GetView(ctx context.Context, t model.DocumentType, projectID int) (*model.DocumentView, error) {
	tb := tablesFor(t)

	var row struct {
		model.Document
		ProjectCode        string
		ProjectName        string
		CustomerName       string
		CustomerPostalCode string
		CustomerAddress    string
	}
	err := r.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT
			d.id,
			d.%s AS number,
			d.project_id,
			d.issue_date,
			d.%s AS expiry_date,
			d.tax_mode,
			d.subtotal,
			d.tax_amount,
			d.total_amount,
			d.status,
			d.notes,
			d.created_by,
			d.updated_by,
			d.created_at,
			d.updated_at,
			p.code AS project_code,
			p.name AS project_name,
			COALESCE(c.name, '') AS customer_name,
			COALESCE(c.postal_code, '') AS customer_postal_code,
			COALESCE(c.address, '') AS customer_address
		FROM %s d
		JOIN projects p ON p.id = d.project_id
		LEFT JOIN customers c ON c.id = p.customer_id
		WHERE d.project_id = ?
		LIMIT 1
	`, tb.numberCol, tb.expiryCol, tb.header), projectID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var details []model.DocumentDetailView
	err = r.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT
			dd.id,
			dd.%s AS document_id,
			dd.product_id,
			dd.quantity,
			dd.unit,
			dd.unit_price,
			dd.tax_rate,
			dd.amount,
			dd.created_at,
			dd.updated_at,
			COALESCE(pr.name, '') AS product_name
		FROM %s dd
		LEFT JOIN products pr ON pr.id = dd.product_id
		WHERE dd.%s = ?
		ORDER BY dd.id ASC
	`, tb.fkCol, tb.detail, tb.fkCol), row.ID).Scan(&details).Error
	if err != nil {
		return nil, err
	}

	doc := row.Document
	doc.Type = t
	return &model.DocumentView{
		Document:           doc,
		ProjectCode:        row.ProjectCode,
		ProjectName:        row.ProjectName,
		CustomerName:       row.CustomerName,
		CustomerPostalCode: row.CustomerPostalCode,
		CustomerAddress:    row.CustomerAddress,
		Details:            details,
	}, nil
}

func (r *DocumentRepository) ListDetails(ctx context.Context, t model.DocumentType, documentID int) ([]model.DocumentDetail, error) {
	tb := tablesFor(t)
	var details []model.DocumentDetail
	err := r.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT
			id,
			%s AS document_id,
			product_id,
			quantity,
			unit,
			unit_price,
			tax_rate,
			amount,
			created_at,
			updated_at
		FROM %s
		WHERE %s = ?
		ORDER BY id ASC
	`, tb.fkCol, tb.detail, tb.fkCol), documentID).Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

// MaxDetailID returns the highest detail id across the whole table. The id
// space is per table, not per document, because clients see and echo these
// ids.
func (r *DocumentRepository) MaxDetailID(ctx context.Context, t model.DocumentType) (int, error) {
	tb := tablesFor(t)
	var maxID int
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(id), 0) FROM ` + tb.detail,
	).Scan(&maxID).Error
	if err != nil {
		return 0, err
	}
	return maxID, nil
}

// NewNumber mints a document number under the weak dated-random scheme. No
// uniqueness check is performed; collisions are an accepted property of the
// scheme.
func (r *DocumentRepository) NewNumber(t model.DocumentType, now time.Time) string {
	return numbering.DatedRandom(t.NumberPrefix(), now, nil)
}

// CreateDraft inserts a zero-amount draft header in its own transaction.
// Used by the preview flow when a project has no document yet.
func (r *DocumentRepository) CreateDraft(ctx context.Context, t model.DocumentType, doc model.Document) (*model.Document, error) {
	var saved model.Document
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		saved, err = insertDocument(tx, t, doc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// CreateWithDetails inserts a header plus its planned lines in one
// transaction, resolving or creating products per line.
func (r *DocumentRepository) CreateWithDetails(ctx context.Context, t model.DocumentType, doc model.Document, plan reconcile.Plan) (*model.Document, error) {
	tb := tablesFor(t)
	var saved model.Document
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		saved, err = insertDocument(tx, t, doc)
		if err != nil {
			return err
		}
		for _, line := range plan.Inserts {
			productID, err := ensureProduct(tx, line.ProductID, line.ProductName, line.UnitPrice)
			if err != nil {
				return err
			}
			if err := insertDetail(tx, tb, saved.ID, line, productID); err != nil {
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

// SaveWithDetails applies a header update and a reconciliation plan in one
// transaction. Any failure rolls back the whole write; partial
// reconciliation is never observable.
func (r *DocumentRepository) SaveWithDetails(ctx context.Context, t model.DocumentType, doc model.Document, plan reconcile.Plan) error {
	tb := tablesFor(t)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(fmt.Sprintf(`
			UPDATE %s
			SET
				issue_date = ?,
				%s = ?,
				tax_mode = ?,
				subtotal = ?,
				tax_amount = ?,
				total_amount = ?,
				status = ?,
				notes = ?,
				updated_by = ?,
				updated_at = NOW()
			WHERE id = ?
		`, tb.header, tb.expiryCol),
			doc.IssueDate,
			doc.ExpiryDate,
			doc.TaxMode,
			doc.Subtotal,
			doc.TaxAmount,
			doc.TotalAmount,
			doc.Status,
			doc.Notes,
			doc.UpdatedBy,
			doc.ID,
		).Error
		if err != nil {
			return err
		}

		for _, line := range plan.Updates {
			productID, err := ensureProduct(tx, line.ProductID, line.ProductName, line.UnitPrice)
			if err != nil {
				return err
			}
			err = tx.Exec(fmt.Sprintf(`
				UPDATE %s
				SET
					product_id = ?,
					quantity = ?,
					unit = ?,
					unit_price = ?,
					amount = ?,
					updated_at = NOW()
				WHERE id = ? AND %s = ?
			`, tb.detail, tb.fkCol),
				productID, line.Quantity, line.Unit, line.UnitPrice, line.Amount,
				line.DetailID, doc.ID,
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
			if err := insertDetail(tx, tb, doc.ID, line, productID); err != nil {
				return err
			}
		}

		if len(plan.DeleteIDs) > 0 {
			err = tx.Exec(fmt.Sprintf(`
				DELETE FROM %s WHERE %s = ? AND id IN (?)
			`, tb.detail, tb.fkCol), doc.ID, plan.DeleteIDs).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the header; details go with it via ON DELETE CASCADE.
func (r *DocumentRepository) Delete(ctx context.Context, t model.DocumentType, id int) error {
	tb := tablesFor(t)
	result := r.db.WithContext(ctx).Exec(`DELETE FROM `+tb.header+` WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func insertDocument(tx *gorm.DB, t model.DocumentType, doc model.Document) (model.Document, error) {
	tb := tablesFor(t)
	var saved model.Document
	err := tx.Raw(fmt.Sprintf(`
		INSERT INTO %s (
			%s,
			project_id,
			issue_date,
			%s,
			tax_mode,
			subtotal,
			tax_amount,
			total_amount,
			status,
			notes,
			created_by,
			updated_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING %s
	`, tb.header, tb.numberCol, tb.expiryCol, tb.headerColumns()),
		doc.Number,
		doc.ProjectID,
		doc.IssueDate,
		doc.ExpiryDate,
		doc.TaxMode,
		doc.Subtotal,
		doc.TaxAmount,
		doc.TotalAmount,
		doc.Status,
		doc.Notes,
		doc.CreatedBy,
		doc.UpdatedBy,
	).Scan(&saved).Error
	if err != nil {
		return model.Document{}, err
	}
	saved.Type = t
	return saved, nil
}

func insertDetail(tx *gorm.DB, tb docTables, documentID int, line reconcile.PlannedLine, productID int) error {
	return tx.Exec(fmt.Sprintf(`
		INSERT INTO %s (id, %s, product_id, quantity, unit, unit_price, tax_rate, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, tb.detail, tb.fkCol),
		line.DetailID, documentID, productID, line.Quantity, line.Unit,
		line.UnitPrice, tax.RatePercent, line.Amount,
	).Error
}

// ensureProduct resolves the supplied product id, creating a product from
// the line's name and price when the id is absent or dangling.
func ensureProduct(tx *gorm.DB, productID int, name string, unitPrice decimal.Decimal) (int, error) {
	if productID > 0 {
		var found int
		err := tx.Raw(`SELECT COALESCE(MAX(id), 0) FROM products WHERE id = ?`, productID).Scan(&found).Error
		if err != nil {
			return 0, err
		}
		if found > 0 {
			return found, nil
		}
	}

	code, err := nextCode(tx, "products", "code", numbering.KindProduct, time.Now())
	if err != nil {
		return 0, err
	}
	if name == "" {
		name = "未登録商品"
	}

	var id int
	err = tx.Raw(`
		INSERT INTO products (code, name, unit_price, tax_rate)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, code, name, unitPrice, tax.RatePercent).Scan(&id).Error
	if err != nil {
		return 0, err
	}
	return id, nil
}
