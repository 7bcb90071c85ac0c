package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

type ExpenseStore interface {
	List(ctx context.Context) ([]model.Expense, error)
	Get(ctx context.Context, id int) (*model.Expense, error)
	ListApprovals(ctx context.Context, expenseID int) ([]model.ExpenseApproval, error)
	Create(ctx context.Context, expense model.Expense) (*model.Expense, error)
	UpdateStatus(ctx context.Context, id int, status model.ExpenseStatus) error
	AppendDecision(ctx context.Context, expenseID int, decision model.ExpenseApproval, mirrored model.ExpenseStatus) (*model.ExpenseApproval, error)
}

type ExpenseService struct {
	expenses ExpenseStore
}

func NewExpenseService(expenses ExpenseStore) *ExpenseService {
	return &ExpenseService{expenses: expenses}
}

type ExpenseInput struct {
	ExpenseDate time.Time
	Category    string
	Amount      int64
	Description string
	Submit      bool
	Principal   model.Principal
}

type ExpenseView struct {
	model.Expense
	Approvals []model.ExpenseApproval `json:"approvals"`
}

func (s *ExpenseService) List(ctx context.Context) ([]model.Expense, error) {
	return s.expenses.List(ctx)
}

func (s *ExpenseService) Get(ctx context.Context, id int) (*ExpenseView, error) {
	expense, err := s.expenses.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: expense %d", ErrNotFound, id)
		}
		return nil, err
	}
	approvals, err := s.expenses.ListApprovals(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ExpenseView{Expense: *expense, Approvals: approvals}, nil
}

func (s *ExpenseService) Create(ctx context.Context, input ExpenseInput) (*model.Expense, error) {
	if input.Category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if input.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	date := input.ExpenseDate
	if date.IsZero() {
		date = time.Now()
	}
	status := model.ExpenseStatusDraft
	if input.Submit {
		status = model.ExpenseStatusSubmitted
	}
	return s.expenses.Create(ctx, model.Expense{
		ApplicantID: input.Principal.UserID,
		ExpenseDate: date,
		Category:    input.Category,
		Amount:      input.Amount,
		Description: input.Description,
		Status:      status,
	})
}

// Submit moves a draft into the approval queue. Resubmitting a rejected
// expense is allowed; anything already submitted or settled is not.
func (s *ExpenseService) Submit(ctx context.Context, id int, principal model.Principal) (*model.Expense, error) {
	expense, err := s.expenses.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: expense %d", ErrNotFound, id)
		}
		return nil, err
	}
	if expense.ApplicantID != principal.UserID && !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: expense %d belongs to another applicant", ErrInvalidInput, id)
	}
	switch expense.Status {
	case model.ExpenseStatusDraft, model.ExpenseStatusRejected:
	default:
		return nil, fmt.Errorf("%w: expense %d is already %s", ErrConflict, id, expense.Status)
	}
	if err := s.expenses.UpdateStatus(ctx, id, model.ExpenseStatusSubmitted); err != nil {
		return nil, err
	}
	expense.Status = model.ExpenseStatusSubmitted
	return expense, nil
}

// Decide records an approval step and mirrors its outcome onto the expense.
func (s *ExpenseService) Decide(ctx context.Context, id int, decision model.ApprovalDecision, comment string, principal model.Principal) (*ExpenseView, error) {
	if decision != model.ApprovalDecisionApproved && decision != model.ApprovalDecisionRejected {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", ErrInvalidInput)
	}
	if !principal.IsApprover() {
		return nil, fmt.Errorf("%w: user %d may not decide expenses", ErrInvalidInput, principal.UserID)
	}
	expense, err := s.expenses.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: expense %d", ErrNotFound, id)
		}
		return nil, err
	}
	if expense.Status != model.ExpenseStatusSubmitted {
		return nil, fmt.Errorf("%w: expense %d is %s, not submitted", ErrConflict, id, expense.Status)
	}

	mirrored := model.ExpenseStatusApproved
	if decision == model.ApprovalDecisionRejected {
		mirrored = model.ExpenseStatusRejected
	}
	_, err = s.expenses.AppendDecision(ctx, id, model.ExpenseApproval{
		Decision:   decision,
		ApproverID: principal.UserID,
		Comment:    comment,
	}, mirrored)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// MarkPaid settles an approved expense.
func (s *ExpenseService) MarkPaid(ctx context.Context, id int) (*model.Expense, error) {
	expense, err := s.expenses.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: expense %d", ErrNotFound, id)
		}
		return nil, err
	}
	if expense.Status != model.ExpenseStatusApproved {
		return nil, fmt.Errorf("%w: expense %d is %s, not approved", ErrConflict, id, expense.Status)
	}
	if err := s.expenses.UpdateStatus(ctx, id, model.ExpenseStatusPaid); err != nil {
		return nil, err
	}
	expense.Status = model.ExpenseStatusPaid
	return expense, nil
}
