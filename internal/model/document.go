package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType selects between the structurally parallel quotation and
// invoice tables.
type DocumentType string

const (
	DocumentTypeQuotation DocumentType = "quotation"
	DocumentTypeInvoice   DocumentType = "invoice"
)

func (t DocumentType) Valid() bool {
	return t == DocumentTypeQuotation || t == DocumentTypeInvoice
}

// NumberPrefix returns the prefix of the dated-random document number
// scheme ("QT"/"IV").
func (t DocumentType) NumberPrefix() string {
	if t == DocumentTypeInvoice {
		return "IV"
	}
	return "QT"
}

// TaxMode states whether the document's line amounts already contain tax.
type TaxMode string

const (
	TaxModeExclusive TaxMode = "exclusive"
	TaxModeInclusive TaxMode = "inclusive"
)

func (m TaxMode) Valid() bool {
	return m == TaxModeExclusive || m == TaxModeInclusive
}

type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
	QuotationStatusExpired  QuotationStatus = "expired"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
)

// Document is a quotation or invoice header. Subtotal/TaxAmount/TotalAmount
// are always recomputed from the full detail set before a write; they are
// never authoritative on their own.
type Document struct {
	ID          int          `json:"document_id"`
	Type        DocumentType `json:"document_type"`
	Number      string       `json:"document_number"`
	ProjectID   int          `json:"project_id"`
	IssueDate   time.Time    `json:"issue_date"`
	ExpiryDate  *time.Time   `json:"expiry_date"` // valid_until for quotations, due_date for invoices
	TaxMode     TaxMode      `json:"tax_mode"`
	Subtotal    int64        `json:"subtotal"`
	TaxAmount   int64        `json:"tax_amount"`
	TotalAmount int64        `json:"total_amount"`
	Status      string       `json:"status"`
	Notes       string       `json:"notes"`
	CreatedBy   int          `json:"created_by"`
	UpdatedBy   int          `json:"updated_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// DocumentDetail is one line of a document. The id space is caller-visible:
// the client echoes ids of lines it keeps and the server allocates
// max(existing)+1 for new lines.
type DocumentDetail struct {
	ID         int             `json:"detail_id"`
	DocumentID int             `json:"document_id"`
	ProductID  int             `json:"product_id"`
	Quantity   int             `json:"quantity"`
	Unit       string          `json:"unit"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TaxRate    int             `json:"tax_rate"`
	Amount     int64           `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DocumentDetailView is a detail row joined with its product name for read
// responses.
type DocumentDetailView struct {
	DocumentDetail
	ProductName string `json:"product_name"`
}

// DocumentView joins a document header with its project, customer and line
// items. Missing customer fields come back as empty strings, never null.
type DocumentView struct {
	Document
	ProjectCode        string               `json:"project_code"`
	ProjectName        string               `json:"project_name"`
	CustomerName       string               `json:"customer_name"`
	CustomerPostalCode string               `json:"customer_postal_code"`
	CustomerAddress    string               `json:"customer_address"`
	Details            []DocumentDetailView `json:"details"`
}

// DocumentListItem is one row of the list endpoints, joined with project and
// customer names.
type DocumentListItem struct {
	ID           int       `json:"document_id"`
	Number       string    `json:"document_number"`
	ProjectID    int       `json:"project_id"`
	ProjectName  string    `json:"project_name"`
	CustomerName string    `json:"customer_name"`
	IssueDate    time.Time `json:"issue_date"`
	TotalAmount  int64     `json:"total_amount"`
	Status       string    `json:"status"`
}
