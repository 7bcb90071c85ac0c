package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/service"
)

type Handler struct {
	documents     *service.DocumentService
	exports       *service.ExportService
	projects      *service.ProjectService
	constructions *service.ConstructionService
	purchases     *service.PurchaseService
	expenses      *service.ExpenseService
	partners      *service.PartnerService
	log           zerolog.Logger
}

func NewHandler(
	documents *service.DocumentService,
	exports *service.ExportService,
	projects *service.ProjectService,
	constructions *service.ConstructionService,
	purchases *service.PurchaseService,
	expenses *service.ExpenseService,
	partners *service.PartnerService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		documents:     documents,
		exports:       exports,
		projects:      projects,
		constructions: constructions,
		purchases:     purchases,
		expenses:      expenses,
		partners:      partners,
		log:           log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := router.Group("/api")
	api.Use(authMiddleware)

	for _, t := range []model.DocumentType{model.DocumentTypeQuotation, model.DocumentTypeInvoice} {
		group := api.Group("/documents/" + string(t) + "s")
		docType := t
		group.GET("", h.listDocuments(docType))
		group.POST("", h.createDocument(docType))
		group.GET("/export", h.exportDocuments(docType))
		group.GET("/:projectId", h.previewDocument(docType))
		group.PUT("/:projectId", h.updateDocument(docType))
		group.GET("/:projectId/pdf", h.documentPDF(docType))
		group.DELETE("/:id", h.deleteDocument(docType))
	}

	api.GET("/projects", h.listProjects)
	api.POST("/projects", h.createProject)
	api.GET("/projects/:id", h.getProject)
	api.PUT("/projects/:id", h.updateProject)
	api.DELETE("/projects/:id", h.deleteProject)

	api.GET("/construction-details", h.listConstructionDetails)
	api.POST("/construction-details", h.createConstructionDetail)
	api.PUT("/construction-details/:id", h.updateConstructionDetail)

	api.GET("/purchase-orders", h.listPurchaseOrders)
	api.POST("/purchase-orders", h.createPurchaseOrder)
	api.GET("/purchase-orders/:id", h.getPurchaseOrder)
	api.PUT("/purchase-orders/:id", h.updatePurchaseOrder)
	api.POST("/purchase-orders/:id/approval", h.decidePurchaseOrder)
	api.DELETE("/purchase-orders/:id", h.deletePurchaseOrder)

	api.GET("/expenses", h.listExpenses)
	api.POST("/expenses", h.createExpense)
	api.GET("/expenses/:id", h.getExpense)
	api.POST("/expenses/:id/submit", h.submitExpense)
	api.POST("/expenses/:id/approvals", h.decideExpense)

	api.GET("/customers", h.listCustomers)
	api.POST("/customers", h.createCustomer)
	api.GET("/suppliers", h.listSuppliers)
	api.POST("/suppliers", h.createSupplier)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrReadAfterWrite):
		// The write committed; only the read back failed.
		h.log.Error().Err(err).Msg("read after committed write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, service.ErrInvalidInput
}
