package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/numbering"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id,
	code,
	customer_id,
	name,
	status,
	contract_amount,
	description,
	created_by,
	updated_by,
	created_at,
	updated_at`

func (r *ProjectRepository) List(ctx context.Context) ([]model.ProjectView, error) {
	var rows []model.ProjectView
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.code,
			p.customer_id,
			p.name,
			p.status,
			p.contract_amount,
			p.description,
			p.created_by,
			p.updated_by,
			p.created_at,
			p.updated_at,
			COALESCE(c.name, '') AS customer_name
		FROM projects p
		LEFT JOIN customers c ON c.id = p.customer_id
		ORDER BY p.id DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id int) (*model.ProjectView, error) {
	var row model.ProjectView
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.code,
			p.customer_id,
			p.name,
			p.status,
			p.contract_amount,
			p.description,
			p.created_by,
			p.updated_by,
			p.created_at,
			p.updated_at,
			COALESCE(c.name, '') AS customer_name
		FROM projects p
		LEFT JOIN customers c ON c.id = p.customer_id
		WHERE p.id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var contacts []model.ContactHistory
	err = r.db.WithContext(ctx).Raw(`
		SELECT id, project_id, contact_date, method, staff_name, note, created_at
		FROM contact_histories
		WHERE project_id = ?
		ORDER BY id ASC
	`, id).Scan(&contacts).Error
	if err != nil {
		return nil, err
	}
	row.ContactHistories = contacts
	return &row, nil
}

// CreatedGraph is the result of the project-creation transaction: the
// project plus its initial draft quotation and invoice.
type CreatedGraph struct {
	Project   model.Project
	Quotation model.Document
	Invoice   model.Document
}

// CreateGraph atomically creates a project with its PJ code, one zero-amount
// draft quotation, one zero-amount draft invoice and any non-empty contact
// history rows. Any failure rolls the whole transaction back; the caller
// never sees a partially created project.
func (r *ProjectRepository) CreateGraph(ctx context.Context, project model.Project, contacts []model.ContactHistory) (*CreatedGraph, error) {
	var graph CreatedGraph
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := nextCode(tx, "projects", "code", numbering.KindProject, now)
		if err != nil {
			return err
		}

		err = tx.Raw(`
			INSERT INTO projects (code, customer_id, name, status, contract_amount, description, created_by, updated_by)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING`+projectColumns, code, project.CustomerID, project.Name, project.Status,
			project.ContractAmount, project.Description, project.CreatedBy, project.UpdatedBy,
		).Scan(&graph.Project).Error
		if err != nil {
			return err
		}

		quotation := model.Document{
			Number:    numbering.DatedRandom(model.DocumentTypeQuotation.NumberPrefix(), now, nil),
			ProjectID: graph.Project.ID,
			IssueDate: now,
			TaxMode:   model.TaxModeExclusive,
			Status:    string(model.QuotationStatusDraft),
			CreatedBy: project.CreatedBy,
			UpdatedBy: project.CreatedBy,
		}
		graph.Quotation, err = insertDocument(tx, model.DocumentTypeQuotation, quotation)
		if err != nil {
			return err
		}

		invoice := model.Document{
			Number:    numbering.DatedRandom(model.DocumentTypeInvoice.NumberPrefix(), now, nil),
			ProjectID: graph.Project.ID,
			IssueDate: now,
			TaxMode:   model.TaxModeExclusive,
			Status:    string(model.InvoiceStatusDraft),
			CreatedBy: project.CreatedBy,
			UpdatedBy: project.CreatedBy,
		}
		graph.Invoice, err = insertDocument(tx, model.DocumentTypeInvoice, invoice)
		if err != nil {
			return err
		}

		return insertContactHistories(tx, graph.Project.ID, contacts)
	})
	if err != nil {
		return nil, err
	}
	return &graph, nil
}

// Update rewrites the project header and replaces its contact histories
// wholesale in one transaction.
func (r *ProjectRepository) Update(ctx context.Context, project model.Project, contacts []model.ContactHistory) (*model.Project, error) {
	var saved model.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			UPDATE projects
			SET
				customer_id = ?,
				name = ?,
				status = ?,
				contract_amount = ?,
				description = ?,
				updated_by = ?,
				updated_at = NOW()
			WHERE id = ?
			RETURNING`+projectColumns,
			project.CustomerID, project.Name, project.Status, project.ContractAmount,
			project.Description, project.UpdatedBy, project.ID,
		).Scan(&saved).Error
		if err != nil {
			return err
		}
		if saved.ID == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Exec(`DELETE FROM contact_histories WHERE project_id = ?`, project.ID).Error; err != nil {
			return err
		}
		return insertContactHistories(tx, project.ID, contacts)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ErrProjectHasDocuments blocks deletion of a project that still owns a
// quotation or invoice.
var ErrProjectHasDocuments = errors.New("project has documents")

// Delete removes the project unless a financial document references it. The
// check and the delete share one transaction so a racing document creation
// still surfaces as ErrProjectHasDocuments, not a foreign-key error.
func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Raw(`
			SELECT
				(SELECT COUNT(*) FROM quotations WHERE project_id = ?) +
				(SELECT COUNT(*) FROM invoices WHERE project_id = ?)
		`, id, id).Scan(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrProjectHasDocuments
		}

		result := tx.Exec(`DELETE FROM projects WHERE id = ?`, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func insertContactHistories(tx *gorm.DB, projectID int, contacts []model.ContactHistory) error {
	for _, contact := range contacts {
		if contact.Empty() {
			continue
		}
		var contactDate interface{}
		if !contact.ContactDate.IsZero() {
			contactDate = contact.ContactDate
		}
		err := tx.Exec(`
			INSERT INTO contact_histories (project_id, contact_date, method, staff_name, note)
			VALUES (?, ?, ?, ?, ?)
		`, projectID, contactDate, contact.Method, contact.StaffName, contact.Note).Error
		if err != nil {
			return err
		}
	}
	return nil
}
