package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/http/middleware"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/service"
)

// detailRequest is one requested line item. The client echoes detailId for
// lines it keeps; omitting it (or sending -1) marks the line as new. The
// amount field is accepted but ignored: amounts are always recomputed
// server-side.
type detailRequest struct {
	DetailID    *int            `json:"detailId"`
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      int64           `json:"amount"`
}

type documentRequest struct {
	ProjectID   int             `json:"projectId"`
	IssueDate   string          `json:"issueDate"`
	ExpiryDate  string          `json:"expiryDate"`
	TaxMode     string          `json:"taxMode"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
	TaxAmount   int64           `json:"taxAmount"`
	TotalAmount int64           `json:"totalAmount"`
	Details     []detailRequest `json:"details"`
}

func detailInputs(details []detailRequest) []service.DetailInput {
	inputs := make([]service.DetailInput, 0, len(details))
	for _, d := range details {
		inputs = append(inputs, service.DetailInput{
			DetailID:    d.DetailID,
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
			Unit:        d.Unit,
			UnitPrice:   d.UnitPrice,
		})
	}
	return inputs
}

func (h *Handler) listDocuments(t model.DocumentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.documents.List(c.Request.Context(), t)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func (h *Handler) previewDocument(t model.DocumentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.MustPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
			return
		}
		projectID, ok := pathID(c, "projectId")
		if !ok {
			return
		}

		view, err := h.documents.Preview(c.Request.Context(), t, projectID, principal)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (h *Handler) createDocument(t model.DocumentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.MustPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
			return
		}

		var req documentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		issueDate, err := parseDate(req.IssueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issueDate"})
			return
		}
		expiryDate, err := parseDate(req.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiryDate"})
			return
		}

		input := service.CreateDocumentInput{
			Type:       t,
			ProjectID:  req.ProjectID,
			ExpiryDate: expiryDate,
			TaxMode:    model.TaxMode(req.TaxMode),
			Notes:      req.Notes,
			Details:    detailInputs(req.Details),
			Principal:  principal,
		}
		if issueDate != nil {
			input.IssueDate = *issueDate
		}

		view, err := h.documents.Create(c.Request.Context(), input)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, view)
	}
}

func (h *Handler) updateDocument(t model.DocumentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.MustPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
			return
		}
		projectID, ok := pathID(c, "projectId")
		if !ok {
			return
		}

		var req documentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		issueDate, err := parseDate(req.IssueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issueDate"})
			return
		}
		expiryDate, err := parseDate(req.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiryDate"})
			return
		}

		view, err := h.documents.Update(c.Request.Context(), service.UpdateDocumentInput{
			Type:       t,
			ProjectID:  projectID,
			IssueDate:  issueDate,
			ExpiryDate: expiryDate,
			TaxMode:    model.TaxMode(req.TaxMode),
			Status:     req.Status,
			Notes:      req.Notes,
			Details:    detailInputs(req.Details),
			Principal:  principal,
		})
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (h *Handler) deleteDocument(t model.DocumentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := h.documents.Delete(c.Request.Context(), t, id); err != nil {
			h.handleError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *Handler) documentPDF(t model.DocumentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := pathID(c, "projectId")
		if !ok {
			return
		}
		result, err := h.exports.RenderPDF(c.Request.Context(), t, projectID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
		c.Data(http.StatusOK, "application/pdf", result.Content)
	}
}

func (h *Handler) exportDocuments(t model.DocumentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h.exports.ExportList(c.Request.Context(), t)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
	}
}
