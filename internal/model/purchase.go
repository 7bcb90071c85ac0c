package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// ApprovalStatus is independent of the lifecycle status: a purchase order
// moves through shipment states and approval states on the same row without
// the two machines constraining each other.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

type PurchaseOrder struct {
	ID             int                 `json:"purchase_order_id"`
	Number         string              `json:"order_number"`
	SupplierID     int                 `json:"supplier_id"`
	ProjectID      *int                `json:"project_id"`
	OrderDate      time.Time           `json:"order_date"`
	ExpectedDate   *time.Time          `json:"expected_date"`
	TaxMode        TaxMode             `json:"tax_mode"`
	Subtotal       int64               `json:"subtotal"`
	TaxAmount      int64               `json:"tax_amount"`
	TotalAmount    int64               `json:"total_amount"`
	Status         PurchaseOrderStatus `json:"status"`
	ApprovalStatus ApprovalStatus      `json:"approval_status"`
	Notes          string              `json:"notes"`
	CreatedBy      int                 `json:"created_by"`
	UpdatedBy      int                 `json:"updated_by"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type PurchaseOrderDetail struct {
	ID              int             `json:"detail_id"`
	PurchaseOrderID int             `json:"purchase_order_id"`
	ProductID       int             `json:"product_id"`
	Quantity        int             `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TaxRate         int             `json:"tax_rate"`
	Amount          int64           `json:"amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
