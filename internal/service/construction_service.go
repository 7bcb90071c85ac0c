package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

type ConstructionStore interface {
	ListByProject(ctx context.Context, projectID int) ([]model.ConstructionDetail, error)
	Get(ctx context.Context, id int) (*model.ConstructionDetail, error)
	Create(ctx context.Context, detail model.ConstructionDetail) (*model.ConstructionDetail, error)
	Update(ctx context.Context, detail model.ConstructionDetail) (*model.ConstructionDetail, error)
}

type ConstructionService struct {
	details  ConstructionStore
	projects ProjectReader
}

func NewConstructionService(details ConstructionStore, projects ProjectReader) *ConstructionService {
	return &ConstructionService{details: details, projects: projects}
}

type ConstructionDetailInput struct {
	ID           int
	ProjectID    int
	ContractorID int
	WorkName     string
	Progress     int
	StartDate    *time.Time
	EndDate      *time.Time
	Status       model.ConstructionStatus
	Principal    model.Principal
}

func (s *ConstructionService) ListByProject(ctx context.Context, projectID int) ([]model.ConstructionDetail, error) {
	if projectID <= 0 {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	return s.details.ListByProject(ctx, projectID)
}

func (s *ConstructionService) Create(ctx context.Context, input ConstructionDetailInput) (*model.ConstructionDetail, error) {
	if err := s.validate(ctx, input, true); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = model.ConstructionStatusPlanned
	}
	return s.details.Create(ctx, model.ConstructionDetail{
		ProjectID:    input.ProjectID,
		ContractorID: input.ContractorID,
		WorkName:     input.WorkName,
		Progress:     input.Progress,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Status:       status,
	})
}

func (s *ConstructionService) Update(ctx context.Context, input ConstructionDetailInput) (*model.ConstructionDetail, error) {
	if input.ID <= 0 {
		return nil, fmt.Errorf("%w: construction detail id is required", ErrInvalidInput)
	}
	if err := s.validate(ctx, input, false); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = model.ConstructionStatusPlanned
	}
	saved, err := s.details.Update(ctx, model.ConstructionDetail{
		ID:           input.ID,
		ContractorID: input.ContractorID,
		WorkName:     input.WorkName,
		Progress:     input.Progress,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Status:       status,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: construction detail %d", ErrNotFound, input.ID)
		}
		return nil, err
	}
	return saved, nil
}

func (s *ConstructionService) validate(ctx context.Context, input ConstructionDetailInput, checkProject bool) error {
	if input.WorkName == "" {
		return fmt.Errorf("%w: work name is required", ErrInvalidInput)
	}
	if input.ContractorID <= 0 {
		return fmt.Errorf("%w: contractor id is required", ErrInvalidInput)
	}
	if input.Progress < 0 || input.Progress > 100 {
		return fmt.Errorf("%w: progress must be within 0-100", ErrInvalidInput)
	}
	if input.StartDate != nil && input.EndDate != nil && input.StartDate.After(*input.EndDate) {
		return fmt.Errorf("%w: start date must not be after end date", ErrInvalidInput)
	}

	if checkProject {
		if input.ProjectID <= 0 {
			return fmt.Errorf("%w: project id is required", ErrInvalidInput)
		}
		if _, err := s.projects.Get(ctx, input.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: project %d", ErrNotFound, input.ProjectID)
			}
			return err
		}
	}
	return nil
}
