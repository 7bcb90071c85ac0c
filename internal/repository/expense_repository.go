package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/numbering"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `
	id,
	expense_number AS number,
	applicant_id,
	expense_date,
	category,
	amount,
	description,
	status,
	created_at,
	updated_at`

func (r *ExpenseRepository) List(ctx context.Context) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.WithContext(ctx).Raw(`
		SELECT` + expenseColumns + `
		FROM expenses
		ORDER BY id DESC
	`).Scan(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *ExpenseRepository) Get(ctx context.Context, id int) (*model.Expense, error) {
	var expense model.Expense
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+expenseColumns+`
		FROM expenses
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&expense).Error
	if err != nil {
		return nil, err
	}
	if expense.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &expense, nil
}

func (r *ExpenseRepository) ListApprovals(ctx context.Context, expenseID int) ([]model.ExpenseApproval, error) {
	var approvals []model.ExpenseApproval
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, expense_id, step, decision, approver_id, comment, decided_at
		FROM expense_approvals
		WHERE expense_id = ?
		ORDER BY step ASC, id ASC
	`, expenseID).Scan(&approvals).Error
	if err != nil {
		return nil, err
	}
	return approvals, nil
}

// Create mints the EXP number (four-digit monthly sequence) and inserts in
// one transaction.
func (r *ExpenseRepository) Create(ctx context.Context, expense model.Expense) (*model.Expense, error) {
	var saved model.Expense
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextCode(tx, "expenses", "expense_number", numbering.KindExpense, time.Now())
		if err != nil {
			return err
		}
		return tx.Raw(`
			INSERT INTO expenses (expense_number, applicant_id, expense_date, category, amount, description, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING`+expenseColumns,
			number, expense.ApplicantID, expense.ExpenseDate, expense.Category,
			expense.Amount, expense.Description, expense.Status,
		).Scan(&saved).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ExpenseRepository) UpdateStatus(ctx context.Context, id int, status model.ExpenseStatus) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE expenses SET status = ?, updated_at = NOW() WHERE id = ?
	`, status, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AppendDecision records one immutable approval row and mirrors the
// expense's status to it, atomically. Past decisions are never modified.
func (r *ExpenseRepository) AppendDecision(ctx context.Context, expenseID int, decision model.ExpenseApproval, mirrored model.ExpenseStatus) (*model.ExpenseApproval, error) {
	var saved model.ExpenseApproval
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nextStep int
		err := tx.Raw(`
			SELECT COALESCE(MAX(step), 0) + 1 FROM expense_approvals WHERE expense_id = ?
		`, expenseID).Scan(&nextStep).Error
		if err != nil {
			return err
		}

		err = tx.Raw(`
			INSERT INTO expense_approvals (expense_id, step, decision, approver_id, comment)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id, expense_id, step, decision, approver_id, comment, decided_at
		`, expenseID, nextStep, decision.Decision, decision.ApproverID, decision.Comment).Scan(&saved).Error
		if err != nil {
			return err
		}

		return tx.Exec(`
			UPDATE expenses SET status = ?, updated_at = NOW() WHERE id = ?
		`, mirrored, expenseID).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
