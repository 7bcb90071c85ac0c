package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/reconcile"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/tax"
)

type PurchaseOrderStore interface {
	List(ctx context.Context) ([]model.PurchaseOrder, error)
	Get(ctx context.Context, id int) (*model.PurchaseOrder, error)
	ListDetails(ctx context.Context, orderID int) ([]model.PurchaseOrderDetail, error)
	MaxDetailID(ctx context.Context) (int, error)
	CreateWithDetails(ctx context.Context, order model.PurchaseOrder, plan reconcile.Plan) (*model.PurchaseOrder, error)
	SaveWithDetails(ctx context.Context, order model.PurchaseOrder, plan reconcile.Plan) error
	SetApproval(ctx context.Context, id int, status model.ApprovalStatus, updatedBy int) error
	Delete(ctx context.Context, id int) error
}

type SupplierReader interface {
	Get(ctx context.Context, id int) (*model.Supplier, error)
}

type PurchaseService struct {
	orders    PurchaseOrderStore
	suppliers SupplierReader
}

func NewPurchaseService(orders PurchaseOrderStore, suppliers SupplierReader) *PurchaseService {
	return &PurchaseService{orders: orders, suppliers: suppliers}
}

type PurchaseOrderInput struct {
	ID           int
	SupplierID   int
	ProjectID    *int
	OrderDate    time.Time
	ExpectedDate *time.Time
	TaxMode      model.TaxMode
	Status       model.PurchaseOrderStatus
	Notes        string
	Details      []DetailInput
	Principal    model.Principal
}

// PurchaseOrderView pairs the header with its lines for read responses.
type PurchaseOrderView struct {
	model.PurchaseOrder
	Details []model.PurchaseOrderDetail `json:"details"`
}

func (s *PurchaseService) List(ctx context.Context) ([]model.PurchaseOrder, error) {
	return s.orders.List(ctx)
}

func (s *PurchaseService) Get(ctx context.Context, id int) (*PurchaseOrderView, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase order %d", ErrNotFound, id)
		}
		return nil, err
	}
	details, err := s.orders.ListDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderView{PurchaseOrder: *order, Details: details}, nil
}

func (s *PurchaseService) Create(ctx context.Context, input PurchaseOrderInput) (*PurchaseOrderView, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}
	mode := input.TaxMode
	if mode == "" {
		mode = model.TaxModeExclusive
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: invalid tax mode %q", ErrInvalidInput, input.TaxMode)
	}

	maxID, err := s.orders.MaxDetailID(ctx)
	if err != nil {
		return nil, err
	}
	plan := reconcile.BuildPlan(nil, desiredLines(input.Details), maxID)
	totals := tax.Calculate(taxLines(input.Details), mode)

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}
	status := input.Status
	if status == "" {
		status = model.PurchaseOrderStatusDraft
	}
	order := model.PurchaseOrder{
		SupplierID:     input.SupplierID,
		ProjectID:      input.ProjectID,
		OrderDate:      orderDate,
		ExpectedDate:   input.ExpectedDate,
		TaxMode:        mode,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		TotalAmount:    totals.TotalAmount,
		Status:         status,
		ApprovalStatus: model.ApprovalStatusPending,
		Notes:          input.Notes,
		CreatedBy:      input.Principal.UserID,
		UpdatedBy:      input.Principal.UserID,
	}

	saved, err := s.orders.CreateWithDetails(ctx, order, plan)
	if err != nil {
		return nil, err
	}
	details, err := s.orders.ListDetails(ctx, saved.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadAfterWrite, err)
	}
	return &PurchaseOrderView{PurchaseOrder: *saved, Details: details}, nil
}

func (s *PurchaseService) Update(ctx context.Context, input PurchaseOrderInput) (*PurchaseOrderView, error) {
	if input.ID <= 0 {
		return nil, fmt.Errorf("%w: purchase order id is required", ErrInvalidInput)
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	current, err := s.orders.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase order %d", ErrNotFound, input.ID)
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

	currentDetails, err := s.orders.ListDetails(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	currentIDs := make([]int, 0, len(currentDetails))
	for _, d := range currentDetails {
		currentIDs = append(currentIDs, d.ID)
	}
	maxID, err := s.orders.MaxDetailID(ctx)
	if err != nil {
		return nil, err
	}
	plan := reconcile.BuildPlan(currentIDs, desiredLines(input.Details), maxID)
	totals := tax.Calculate(taxLines(input.Details), mode)

	order := *current
	order.SupplierID = input.SupplierID
	order.ProjectID = input.ProjectID
	order.TaxMode = mode
	order.Subtotal = totals.Subtotal
	order.TaxAmount = totals.TaxAmount
	order.TotalAmount = totals.TotalAmount
	order.Notes = input.Notes
	order.UpdatedBy = input.Principal.UserID
	if !input.OrderDate.IsZero() {
		order.OrderDate = input.OrderDate
	}
	if input.ExpectedDate != nil {
		order.ExpectedDate = input.ExpectedDate
	}
	if input.Status != "" {
		order.Status = input.Status
	}

	if err := s.orders.SaveWithDetails(ctx, order, plan); err != nil {
		return nil, err
	}
	return s.Get(ctx, input.ID)
}

// Decide flips the approval machine; the shipment/lifecycle status is not
// touched.
func (s *PurchaseService) Decide(ctx context.Context, id int, decision model.ApprovalStatus, principal model.Principal) (*PurchaseOrderView, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: purchase order id is required", ErrInvalidInput)
	}
	if decision != model.ApprovalStatusApproved && decision != model.ApprovalStatusRejected {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", ErrInvalidInput)
	}
	if err := s.orders.SetApproval(ctx, id, decision, principal.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *PurchaseService) Delete(ctx context.Context, id int) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: purchase order %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *PurchaseService) validate(ctx context.Context, input PurchaseOrderInput) error {
	if input.SupplierID <= 0 {
		return fmt.Errorf("%w: supplier id is required", ErrInvalidInput)
	}
	if err := validateDetails(input.Details); err != nil {
		return err
	}
	if _, err := s.suppliers.Get(ctx, input.SupplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: supplier %d", ErrNotFound, input.SupplierID)
		}
		return err
	}
	return nil
}
