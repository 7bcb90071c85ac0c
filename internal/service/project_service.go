package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/repository"
)

type ProjectStore interface {
	List(ctx context.Context) ([]model.ProjectView, error)
	Get(ctx context.Context, id int) (*model.ProjectView, error)
	CreateGraph(ctx context.Context, project model.Project, contacts []model.ContactHistory) (*repository.CreatedGraph, error)
	Update(ctx context.Context, project model.Project, contacts []model.ContactHistory) (*model.Project, error)
	Delete(ctx context.Context, id int) error
}

type CustomerReader interface {
	Get(ctx context.Context, id int) (*model.Customer, error)
}

type ProjectService struct {
	projects  ProjectStore
	customers CustomerReader
}

func NewProjectService(projects ProjectStore, customers CustomerReader) *ProjectService {
	return &ProjectService{projects: projects, customers: customers}
}

type ContactHistoryInput struct {
	ContactDate time.Time
	Method      string
	StaffName   string
	Note        string
}

type ProjectInput struct {
	ID               int
	CustomerID       int
	Name             string
	Status           model.ProjectStatus
	ContractAmount   *int64
	Description      string
	ContactHistories []ContactHistoryInput
	Principal        model.Principal
}

// CreateProjectResult carries the project with the initial document pair
// created in the same transaction.
type CreateProjectResult struct {
	Project   model.Project
	Quotation model.Document
	Invoice   model.Document
}

func (s *ProjectService) List(ctx context.Context) ([]model.ProjectView, error) {
	return s.projects.List(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id int) (*model.ProjectView, error) {
	view, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project %d", ErrNotFound, id)
		}
		return nil, err
	}
	return view, nil
}

// Create validates the input, then creates the project together with its
// draft quotation and invoice in one transaction. Nothing survives a
// failure at any step.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*CreateProjectResult, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.ProjectStatusDraft
	}
	project := model.Project{
		CustomerID:     input.CustomerID,
		Name:           input.Name,
		Status:         status,
		ContractAmount: input.ContractAmount,
		Description:    input.Description,
		CreatedBy:      input.Principal.UserID,
		UpdatedBy:      input.Principal.UserID,
	}

	graph, err := s.projects.CreateGraph(ctx, project, contactRows(input.ContactHistories))
	if err != nil {
		return nil, err
	}
	return &CreateProjectResult{
		Project:   graph.Project,
		Quotation: graph.Quotation,
		Invoice:   graph.Invoice,
	}, nil
}

// Update rewrites the header and replaces contact histories wholesale.
func (s *ProjectService) Update(ctx context.Context, input ProjectInput) (*model.Project, error) {
	if input.ID <= 0 {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.ProjectStatusDraft
	}
	project := model.Project{
		ID:             input.ID,
		CustomerID:     input.CustomerID,
		Name:           input.Name,
		Status:         status,
		ContractAmount: input.ContractAmount,
		Description:    input.Description,
		UpdatedBy:      input.Principal.UserID,
	}

	saved, err := s.projects.Update(ctx, project, contactRows(input.ContactHistories))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project %d", ErrNotFound, input.ID)
		}
		return nil, err
	}
	return saved, nil
}

// Delete refuses to remove a project that still owns financial documents.
// The guard surfaces as a conflict with an operator-readable reason, not a
// foreign-key error; the store runs the check and the delete in one
// transaction.
func (s *ProjectService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrProjectHasDocuments):
			return fmt.Errorf("%w: cannot delete project %d: dependent quotation or invoice exists", ErrConflict, id)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("%w: project %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *ProjectService) validate(ctx context.Context, input ProjectInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if input.CustomerID <= 0 {
		return fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	if input.ContractAmount != nil && *input.ContractAmount < 0 {
		return fmt.Errorf("%w: contract amount must not be negative", ErrInvalidInput)
	}
	if input.Status != "" && !input.Status.Valid() {
		return fmt.Errorf("%w: invalid project status %q", ErrInvalidInput, input.Status)
	}

	if _, err := s.customers.Get(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: customer %d", ErrNotFound, input.CustomerID)
		}
		return err
	}
	return nil
}

func contactRows(inputs []ContactHistoryInput) []model.ContactHistory {
	rows := make([]model.ContactHistory, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, model.ContactHistory{
			ContactDate: in.ContactDate,
			Method:      in.Method,
			StaffName:   in.StaffName,
			Note:        in.Note,
		})
	}
	return rows
}
