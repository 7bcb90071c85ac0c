package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/http/middleware"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/service"
)

type purchaseOrderRequest struct {
	SupplierID   int             `json:"supplierId"`
	ProjectID    *int            `json:"projectId"`
	OrderDate    string          `json:"orderDate"`
	ExpectedDate string          `json:"expectedDate"`
	TaxMode      string          `json:"taxMode"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes"`
	Details      []detailRequest `json:"details"`
}

func (r purchaseOrderRequest) toInput(id int, principal model.Principal) (service.PurchaseOrderInput, error) {
	orderDate, err := parseDate(r.OrderDate)
	if err != nil {
		return service.PurchaseOrderInput{}, err
	}
	expectedDate, err := parseDate(r.ExpectedDate)
	if err != nil {
		return service.PurchaseOrderInput{}, err
	}
	input := service.PurchaseOrderInput{
		ID:           id,
		SupplierID:   r.SupplierID,
		ProjectID:    r.ProjectID,
		ExpectedDate: expectedDate,
		TaxMode:      model.TaxMode(r.TaxMode),
		Status:       model.PurchaseOrderStatus(r.Status),
		Notes:        r.Notes,
		Details:      detailInputs(r.Details),
		Principal:    principal,
	}
	if orderDate != nil {
		input.OrderDate = *orderDate
	}
	return input, nil
}

type approvalRequest struct {
	Decision string `json:"decision"`
	Comment  string `json:"comment"`
}

func (h *Handler) listPurchaseOrders(c *gin.Context) {
	orders, err := h.purchases.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getPurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.purchases.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) createPurchaseOrder(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req purchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput(0, principal)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	view, err := h.purchases.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) updatePurchaseOrder(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req purchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput(id, principal)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	view, err := h.purchases.Update(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) decidePurchaseOrder(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.purchases.Decide(c.Request.Context(), id, model.ApprovalStatus(req.Decision), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) deletePurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.purchases.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
