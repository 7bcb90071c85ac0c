package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/reconcile"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/tax"
)

// DocumentStore is the persistence surface the document service needs.
// Implemented by repository.DocumentRepository; tests substitute a fake.
type DocumentStore interface {
	List(ctx context.Context, t model.DocumentType) ([]model.DocumentListItem, error)
	GetByProject(ctx context.Context, t model.DocumentType, projectID int) (*model.Document, error)
	GetByID(ctx context.Context, t model.DocumentType, id int) (*model.Document, error)
	GetView(ctx context.Context, t model.DocumentType, projectID int) (*model.DocumentView, error)
	ListDetails(ctx context.Context, t model.DocumentType, documentID int) ([]model.DocumentDetail, error)
	MaxDetailID(ctx context.Context, t model.DocumentType) (int, error)
	NewNumber(t model.DocumentType, now time.Time) string
	CreateDraft(ctx context.Context, t model.DocumentType, doc model.Document) (*model.Document, error)
	CreateWithDetails(ctx context.Context, t model.DocumentType, doc model.Document, plan reconcile.Plan) (*model.Document, error)
	SaveWithDetails(ctx context.Context, t model.DocumentType, doc model.Document, plan reconcile.Plan) error
	Delete(ctx context.Context, t model.DocumentType, id int) error
}

// ProjectReader is the slice of the project store the document service
// needs for existence checks.
type ProjectReader interface {
	Get(ctx context.Context, id int) (*model.ProjectView, error)
}

type DocumentService struct {
	documents DocumentStore
	projects  ProjectReader
}

func NewDocumentService(documents DocumentStore, projects ProjectReader) *DocumentService {
	return &DocumentService{documents: documents, projects: projects}
}

// DetailInput is one requested line item. A nil or -1 DetailID means
// "insert new"; any other value means "update the line with this id".
type DetailInput struct {
	DetailID    *int
	ProductID   int
	ProductName string
	Quantity    int
	Unit        string
	UnitPrice   decimal.Decimal
}

type CreateDocumentInput struct {
	Type       model.DocumentType
	ProjectID  int
	IssueDate  time.Time
	ExpiryDate *time.Time
	TaxMode    model.TaxMode
	Notes      string
	Details    []DetailInput
	Principal  model.Principal
}

type UpdateDocumentInput struct {
	Type       model.DocumentType
	ProjectID  int
	IssueDate  *time.Time
	ExpiryDate *time.Time
	TaxMode    model.TaxMode
	Status     string
	Notes      string
	Details    []DetailInput
	Principal  model.Principal
}

func (s *DocumentService) List(ctx context.Context, t model.DocumentType) ([]model.DocumentListItem, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: invalid document type", ErrInvalidInput)
	}
	return s.documents.List(ctx, t)
}

// Preview returns the joined document view for a project, lazily creating a
// zero-amount draft when the project has never had a document of this type.
// The first GET for a fresh project therefore writes.
func (s *DocumentService) Preview(ctx context.Context, t model.DocumentType, projectID int, principal model.Principal) (*model.DocumentView, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: invalid document type", ErrInvalidInput)
	}
	if projectID <= 0 {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}

	view, err := s.documents.GetView(ctx, t, projectID)
	if err == nil {
		return view, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.projects.Get(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
		}
		return nil, err
	}

	now := time.Now()
	draft := model.Document{
		Number:    s.documents.NewNumber(t, now),
		ProjectID: projectID,
		IssueDate: now,
		TaxMode:   model.TaxModeExclusive,
		Status:    draftStatus(t),
		CreatedBy: principal.UserID,
		UpdatedBy: principal.UserID,
	}
	if _, err := s.documents.CreateDraft(ctx, t, draft); err != nil {
		return nil, err
	}

	view, err = s.documents.GetView(ctx, t, projectID)
	if err != nil {
		// The draft was committed; only the read back failed.
		return nil, fmt.Errorf("%w: %v", ErrReadAfterWrite, err)
	}
	return view, nil
}

// Create writes a document with explicit line items. A project may own at
// most one document of each type.
func (s *DocumentService) Create(ctx context.Context, input CreateDocumentInput) (*model.DocumentView, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: invalid document type", ErrInvalidInput)
	}
	if input.ProjectID <= 0 {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	if err := validateDetails(input.Details); err != nil {
		return nil, err
	}
	mode := input.TaxMode
	if mode == "" {
		mode = model.TaxModeExclusive
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: invalid tax mode %q", ErrInvalidInput, input.TaxMode)
	}

	if _, err := s.projects.Get(ctx, input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project %d", ErrNotFound, input.ProjectID)
		}
		return nil, err
	}
	if _, err := s.documents.GetByProject(ctx, input.Type, input.ProjectID); err == nil {
		return nil, fmt.Errorf("%w: project %d already has a %s", ErrConflict, input.ProjectID, input.Type)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	maxID, err := s.documents.MaxDetailID(ctx, input.Type)
	if err != nil {
		return nil, err
	}
	plan := reconcile.BuildPlan(nil, desiredLines(input.Details), maxID)
	totals := tax.Calculate(taxLines(input.Details), mode)

	now := time.Now()
	issueDate := input.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}
	doc := model.Document{
		Number:      s.documents.NewNumber(input.Type, now),
		ProjectID:   input.ProjectID,
		IssueDate:   issueDate,
		ExpiryDate:  input.ExpiryDate,
		TaxMode:     mode,
		Subtotal:    totals.Subtotal,
		TaxAmount:   totals.TaxAmount,
		TotalAmount: totals.TotalAmount,
		Status:      draftStatus(input.Type),
		Notes:       input.Notes,
		CreatedBy:   input.Principal.UserID,
		UpdatedBy:   input.Principal.UserID,
	}

	if _, err := s.documents.CreateWithDetails(ctx, input.Type, doc, plan); err != nil {
		return nil, err
	}

	view, err := s.documents.GetView(ctx, input.Type, input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadAfterWrite, err)
	}
	return view, nil
}

// Update reconciles the document's line items against the requested set and
// recomputes the totals from scratch. Header totals are never patched
// incrementally.
func (s *DocumentService) Update(ctx context.Context, input UpdateDocumentInput) (*model.DocumentView, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: invalid document type", ErrInvalidInput)
	}
	if input.ProjectID <= 0 {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	if err := validateDetails(input.Details); err != nil {
		return nil, err
	}

	current, err := s.documents.GetByProject(ctx, input.Type, input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no %s for project %d", ErrNotFound, input.Type, input.ProjectID)
		}
		return nil, err
	}

	mode := input.TaxMode
	if mode == "" {
		mode = current.TaxMode
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: invalid tax mode %q", ErrInvalidInput, input.TaxMode)
	}

	currentDetails, err := s.documents.ListDetails(ctx, input.Type, current.ID)
	if err != nil {
		return nil, err
	}
	currentIDs := make([]int, 0, len(currentDetails))
	for _, d := range currentDetails {
		currentIDs = append(currentIDs, d.ID)
	}

	maxID, err := s.documents.MaxDetailID(ctx, input.Type)
	if err != nil {
		return nil, err
	}
	plan := reconcile.BuildPlan(currentIDs, desiredLines(input.Details), maxID)
	totals := tax.Calculate(taxLines(input.Details), mode)

	doc := *current
	doc.TaxMode = mode
	doc.Subtotal = totals.Subtotal
	doc.TaxAmount = totals.TaxAmount
	doc.TotalAmount = totals.TotalAmount
	doc.Notes = input.Notes
	doc.UpdatedBy = input.Principal.UserID
	if input.IssueDate != nil {
		doc.IssueDate = *input.IssueDate
	}
	if input.ExpiryDate != nil {
		doc.ExpiryDate = input.ExpiryDate
	}
	if input.Status != "" {
		doc.Status = input.Status
	}

	if err := s.documents.SaveWithDetails(ctx, input.Type, doc, plan); err != nil {
		return nil, err
	}

	view, err := s.documents.GetView(ctx, input.Type, input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadAfterWrite, err)
	}
	return view, nil
}

// Delete removes the document and, via cascade, its line items.
func (s *DocumentService) Delete(ctx context.Context, t model.DocumentType, id int) error {
	if !t.Valid() {
		return fmt.Errorf("%w: invalid document type", ErrInvalidInput)
	}
	if err := s.documents.Delete(ctx, t, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s %d", ErrNotFound, t, id)
		}
		return err
	}
	return nil
}

func draftStatus(t model.DocumentType) string {
	if t == model.DocumentTypeInvoice {
		return string(model.InvoiceStatusDraft)
	}
	return string(model.QuotationStatusDraft)
}

func validateDetails(details []DetailInput) error {
	for i, d := range details {
		if d.Quantity < 0 {
			return fmt.Errorf("%w: detail %d: quantity must not be negative", ErrInvalidInput, i+1)
		}
		if d.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: detail %d: unit price must not be negative", ErrInvalidInput, i+1)
		}
		if d.ProductID <= 0 && d.ProductName == "" {
			return fmt.Errorf("%w: detail %d: product id or name is required", ErrInvalidInput, i+1)
		}
	}
	return nil
}

func desiredLines(details []DetailInput) []reconcile.DesiredLine {
	lines := make([]reconcile.DesiredLine, 0, len(details))
	for _, d := range details {
		lines = append(lines, reconcile.DesiredLine{
			DetailID:    d.DetailID,
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
			Unit:        d.Unit,
			UnitPrice:   d.UnitPrice,
		})
	}
	return lines
}

func taxLines(details []DetailInput) []tax.Line {
	lines := make([]tax.Line, 0, len(details))
	for _, d := range details {
		lines = append(lines, tax.Line{Quantity: d.Quantity, UnitPrice: d.UnitPrice})
	}
	return lines
}
