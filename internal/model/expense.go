package model

import "time"

type ExpenseStatus string

const (
	ExpenseStatusDraft     ExpenseStatus = "draft"
	ExpenseStatusSubmitted ExpenseStatus = "submitted"
	ExpenseStatusApproved  ExpenseStatus = "approved"
	ExpenseStatusRejected  ExpenseStatus = "rejected"
	ExpenseStatusPaid      ExpenseStatus = "paid"
)

type Expense struct {
	ID          int           `json:"expense_id"`
	Number      string        `json:"expense_number"`
	ApplicantID int           `json:"applicant_id"`
	ExpenseDate time.Time     `json:"expense_date"`
	Category    string        `json:"category"`
	Amount      int64         `json:"amount"`
	Description string        `json:"description"`
	Status      ExpenseStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type ApprovalDecision string

const (
	ApprovalDecisionApproved ApprovalDecision = "approved"
	ApprovalDecisionRejected ApprovalDecision = "rejected"
)

// ExpenseApproval rows are append-only: every decision adds a new row and
// the expense's status mirrors the latest one. Past decisions are never
// edited.
type ExpenseApproval struct {
	ID         int              `json:"approval_id"`
	ExpenseID  int              `json:"expense_id"`
	Step       int              `json:"step"`
	Decision   ApprovalDecision `json:"decision"`
	ApproverID int              `json:"approver_id"`
	Comment    string           `json:"comment"`
	DecidedAt  time.Time        `json:"decided_at"`
}
