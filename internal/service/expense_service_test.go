package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

type fakeExpenseStore struct {
	expense   *model.Expense
	approvals []model.ExpenseApproval

	created *model.Expense
}

func (f *fakeExpenseStore) List(ctx context.Context) ([]model.Expense, error) {
	return nil, nil
}

func (f *fakeExpenseStore) Get(ctx context.Context, id int) (*model.Expense, error) {
	if f.expense == nil || f.expense.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	e := *f.expense
	return &e, nil
}

func (f *fakeExpenseStore) ListApprovals(ctx context.Context, expenseID int) ([]model.ExpenseApproval, error) {
	return f.approvals, nil
}

func (f *fakeExpenseStore) Create(ctx context.Context, expense model.Expense) (*model.Expense, error) {
	expense.ID = 1
	expense.Number = "EXP24070001"
	f.created = &expense
	f.expense = &expense
	return &expense, nil
}

func (f *fakeExpenseStore) UpdateStatus(ctx context.Context, id int, status model.ExpenseStatus) error {
	if f.expense == nil || f.expense.ID != id {
		return gorm.ErrRecordNotFound
	}
	f.expense.Status = status
	return nil
}

func (f *fakeExpenseStore) AppendDecision(ctx context.Context, expenseID int, decision model.ExpenseApproval, mirrored model.ExpenseStatus) (*model.ExpenseApproval, error) {
	if f.expense == nil || f.expense.ID != expenseID {
		return nil, gorm.ErrRecordNotFound
	}
	decision.ID = len(f.approvals) + 1
	decision.ExpenseID = expenseID
	decision.Step = len(f.approvals) + 1
	f.approvals = append(f.approvals, decision)
	f.expense.Status = mirrored
	return &decision, nil
}

func TestExpenseServiceCreate(t *testing.T) {
	store := &fakeExpenseStore{}
	svc := NewExpenseService(store)

	expense, err := svc.Create(context.Background(), ExpenseInput{
		Category:  "交通費",
		Amount:    1200,
		Submit:    true,
		Principal: model.Principal{UserID: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "EXP24070001", expense.Number)
	assert.Equal(t, model.ExpenseStatusSubmitted, expense.Status)
	assert.Equal(t, 3, expense.ApplicantID)

	_, err = svc.Create(context.Background(), ExpenseInput{Amount: 100})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), ExpenseInput{Category: "交通費", Amount: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExpenseServiceSubmitTransitions(t *testing.T) {
	tests := []struct {
		name    string
		status  model.ExpenseStatus
		wantErr error
	}{
		{name: "draft", status: model.ExpenseStatusDraft},
		{name: "rejected resubmit", status: model.ExpenseStatusRejected},
		{name: "already submitted", status: model.ExpenseStatusSubmitted, wantErr: ErrConflict},
		{name: "already approved", status: model.ExpenseStatusApproved, wantErr: ErrConflict},
		{name: "already paid", status: model.ExpenseStatusPaid, wantErr: ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeExpenseStore{
				expense: &model.Expense{ID: 1, ApplicantID: 3, Status: tt.status},
			}
			svc := NewExpenseService(store)

			expense, err := svc.Submit(context.Background(), 1, model.Principal{UserID: 3})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.ExpenseStatusSubmitted, expense.Status)
		})
	}
}

func TestExpenseServiceSubmitOtherApplicant(t *testing.T) {
	store := &fakeExpenseStore{
		expense: &model.Expense{ID: 1, ApplicantID: 3, Status: model.ExpenseStatusDraft},
	}
	svc := NewExpenseService(store)

	_, err := svc.Submit(context.Background(), 1, model.Principal{UserID: 9, Role: "STAFF"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(context.Background(), 1, model.Principal{UserID: 9, Role: "ADMIN"})
	assert.NoError(t, err)
}

func TestExpenseServiceDecideMirrorsStatus(t *testing.T) {
	store := &fakeExpenseStore{
		expense: &model.Expense{ID: 1, ApplicantID: 3, Status: model.ExpenseStatusSubmitted},
	}
	svc := NewExpenseService(store)
	approver := model.Principal{UserID: 5, Role: "APPROVER"}

	view, err := svc.Decide(context.Background(), 1, model.ApprovalDecisionRejected, "領収書不足", approver)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusRejected, view.Status)
	require.Len(t, view.Approvals, 1)
	assert.Equal(t, 1, view.Approvals[0].Step)
	assert.Equal(t, 5, view.Approvals[0].ApproverID)

	// Decisions are append-only: resubmit and decide again adds a step.
	store.expense.Status = model.ExpenseStatusSubmitted
	view, err = svc.Decide(context.Background(), 1, model.ApprovalDecisionApproved, "", approver)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusApproved, view.Status)
	require.Len(t, view.Approvals, 2)
	assert.Equal(t, 2, view.Approvals[1].Step)
}

func TestExpenseServiceDecideGuards(t *testing.T) {
	store := &fakeExpenseStore{
		expense: &model.Expense{ID: 1, Status: model.ExpenseStatusDraft},
	}
	svc := NewExpenseService(store)
	approver := model.Principal{UserID: 5, Role: "APPROVER"}

	_, err := svc.Decide(context.Background(), 1, "maybe", "", approver)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Decide(context.Background(), 1, model.ApprovalDecisionApproved, "", model.Principal{UserID: 5, Role: "STAFF"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Decide(context.Background(), 1, model.ApprovalDecisionApproved, "", approver)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestExpenseServiceMarkPaid(t *testing.T) {
	store := &fakeExpenseStore{
		expense: &model.Expense{ID: 1, Status: model.ExpenseStatusApproved},
	}
	svc := NewExpenseService(store)

	expense, err := svc.MarkPaid(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusPaid, expense.Status)

	_, err = svc.MarkPaid(context.Background(), 1)
	assert.ErrorIs(t, err, ErrConflict)
}
