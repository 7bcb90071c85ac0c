package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/http/middleware"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/service"
)

type contactHistoryRequest struct {
	ContactDate string `json:"contactDate"`
	Method      string `json:"method"`
	StaffName   string `json:"staffName"`
	Note        string `json:"note"`
}

type projectRequest struct {
	CustomerID       int                     `json:"customerId"`
	Name             string                  `json:"name"`
	Status           string                  `json:"status"`
	ContractAmount   *int64                  `json:"contractAmount"`
	Description      string                  `json:"description"`
	ContactHistories []contactHistoryRequest `json:"contactHistories"`
}

func (r projectRequest) toInput(id int, principal model.Principal) (service.ProjectInput, error) {
	input := service.ProjectInput{
		ID:             id,
		CustomerID:     r.CustomerID,
		Name:           r.Name,
		Status:         model.ProjectStatus(r.Status),
		ContractAmount: r.ContractAmount,
		Description:    r.Description,
		Principal:      principal,
	}
	for _, contact := range r.ContactHistories {
		date, err := parseDate(contact.ContactDate)
		if err != nil {
			return service.ProjectInput{}, err
		}
		row := service.ContactHistoryInput{
			Method:    contact.Method,
			StaffName: contact.StaffName,
			Note:      contact.Note,
		}
		if date != nil {
			row.ContactDate = *date
		}
		input.ContactHistories = append(input.ContactHistories, row)
	}
	return input, nil
}

func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) getProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) createProject(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput(0, principal)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contactDate"})
		return
	}

	result, err := h.projects.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"project":   result.Project,
		"quotation": result.Quotation,
		"invoice":   result.Invoice,
	})
}

func (h *Handler) updateProject(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput(id, principal)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contactDate"})
		return
	}

	project, err := h.projects.Update(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) deleteProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
