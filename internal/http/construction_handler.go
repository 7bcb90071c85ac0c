package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/http/middleware"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/service"
)

type constructionDetailRequest struct {
	ProjectID    int    `json:"projectId"`
	ContractorID int    `json:"contractorId"`
	WorkName     string `json:"workName"`
	Progress     int    `json:"progress"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Status       string `json:"status"`
}

func (r constructionDetailRequest) toInput(id int, principal model.Principal) (service.ConstructionDetailInput, error) {
	startDate, err := parseDate(r.StartDate)
	if err != nil {
		return service.ConstructionDetailInput{}, err
	}
	endDate, err := parseDate(r.EndDate)
	if err != nil {
		return service.ConstructionDetailInput{}, err
	}
	return service.ConstructionDetailInput{
		ID:           id,
		ProjectID:    r.ProjectID,
		ContractorID: r.ContractorID,
		WorkName:     r.WorkName,
		Progress:     r.Progress,
		StartDate:    startDate,
		EndDate:      endDate,
		Status:       model.ConstructionStatus(r.Status),
		Principal:    principal,
	}, nil
}

func (h *Handler) listConstructionDetails(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Query("projectId"))
	if err != nil || projectID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projectId"})
		return
	}
	details, err := h.constructions.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) createConstructionDetail(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req constructionDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput(0, principal)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	detail, err := h.constructions.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *Handler) updateConstructionDetail(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req constructionDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput(id, principal)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	detail, err := h.constructions.Update(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
