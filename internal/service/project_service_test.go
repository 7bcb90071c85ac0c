package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/repository"
)

type fakeProjectStore struct {
	project  *model.ProjectView
	docCount int64

	graphErr        error
	createdProject  *model.Project
	createdContacts []model.ContactHistory
	updated         *model.Project
	deletedID       int
}

func (f *fakeProjectStore) List(ctx context.Context) ([]model.ProjectView, error) {
	return nil, nil
}

func (f *fakeProjectStore) Get(ctx context.Context, id int) (*model.ProjectView, error) {
	if f.project == nil || f.project.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.project, nil
}

func (f *fakeProjectStore) CreateGraph(ctx context.Context, project model.Project, contacts []model.ContactHistory) (*repository.CreatedGraph, error) {
	if f.graphErr != nil {
		return nil, f.graphErr
	}
	project.ID = 1
	project.Code = "PJ2407001"
	f.createdProject = &project
	f.createdContacts = contacts
	return &repository.CreatedGraph{
		Project:   project,
		Quotation: model.Document{ID: 1, Type: model.DocumentTypeQuotation, Number: "QT20240701042", ProjectID: 1},
		Invoice:   model.Document{ID: 1, Type: model.DocumentTypeInvoice, Number: "IV20240701315", ProjectID: 1},
	}, nil
}

func (f *fakeProjectStore) Update(ctx context.Context, project model.Project, contacts []model.ContactHistory) (*model.Project, error) {
	if f.project == nil || f.project.ID != project.ID {
		return nil, gorm.ErrRecordNotFound
	}
	f.updated = &project
	return &project, nil
}

func (f *fakeProjectStore) Delete(ctx context.Context, id int) error {
	if f.project == nil || f.project.ID != id {
		return gorm.ErrRecordNotFound
	}
	if f.docCount > 0 {
		return repository.ErrProjectHasDocuments
	}
	f.deletedID = id
	return nil
}

type fakeCustomerReader struct {
	customers map[int]*model.Customer
}

func (f *fakeCustomerReader) Get(ctx context.Context, id int) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func customerReaderWith(ids ...int) *fakeCustomerReader {
	r := &fakeCustomerReader{customers: map[int]*model.Customer{}}
	for _, id := range ids {
		r.customers[id] = &model.Customer{ID: id, Name: "株式会社テスト"}
	}
	return r
}

func TestProjectServiceCreateReturnsGraph(t *testing.T) {
	store := &fakeProjectStore{}
	svc := NewProjectService(store, customerReaderWith(4))

	result, err := svc.Create(context.Background(), ProjectInput{
		CustomerID: 4,
		Name:       "外壁改修工事",
		ContactHistories: []ContactHistoryInput{
			{Method: "phone", StaffName: "田中", Note: "初回相談"},
		},
		Principal: model.Principal{UserID: 7},
	})
	require.NoError(t, err)

	assert.Equal(t, "PJ2407001", result.Project.Code)
	assert.Equal(t, "QT20240701042", result.Quotation.Number)
	assert.Equal(t, "IV20240701315", result.Invoice.Number)

	require.NotNil(t, store.createdProject)
	assert.Equal(t, model.ProjectStatusDraft, store.createdProject.Status)
	assert.Equal(t, 7, store.createdProject.CreatedBy)
	require.Len(t, store.createdContacts, 1)
	assert.Equal(t, "田中", store.createdContacts[0].StaffName)
}

func TestProjectServiceCreateFailurePropagates(t *testing.T) {
	store := &fakeProjectStore{graphErr: errors.New("insert failed")}
	svc := NewProjectService(store, customerReaderWith(4))

	_, err := svc.Create(context.Background(), ProjectInput{
		CustomerID: 4,
		Name:       "外壁改修工事",
	})
	require.Error(t, err)
	assert.Nil(t, store.createdProject)
}

func TestProjectServiceCreateValidation(t *testing.T) {
	negative := int64(-1)
	tests := []struct {
		name    string
		input   ProjectInput
		wantErr error
	}{
		{
			name:    "missing name",
			input:   ProjectInput{CustomerID: 4},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing customer",
			input:   ProjectInput{Name: "工事"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown customer",
			input:   ProjectInput{Name: "工事", CustomerID: 99},
			wantErr: ErrNotFound,
		},
		{
			name:    "negative contract amount",
			input:   ProjectInput{Name: "工事", CustomerID: 4, ContractAmount: &negative},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bogus status",
			input:   ProjectInput{Name: "工事", CustomerID: 4, Status: "archived"},
			wantErr: ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProjectService(&fakeProjectStore{}, customerReaderWith(4))
			_, err := svc.Create(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// The store reports the document guard from inside the delete transaction;
// the service must surface it as a conflict, not a bare store error.
func TestProjectServiceDeleteBlockedByDocuments(t *testing.T) {
	store := &fakeProjectStore{
		project:  &model.ProjectView{Project: model.Project{ID: 1}},
		docCount: 2,
	}
	svc := NewProjectService(store, customerReaderWith(4))

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Zero(t, store.deletedID)
}

func TestProjectServiceDelete(t *testing.T) {
	store := &fakeProjectStore{
		project: &model.ProjectView{Project: model.Project{ID: 1}},
	}
	svc := NewProjectService(store, customerReaderWith(4))

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, 1, store.deletedID)

	err := svc.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectServiceUpdateNotFound(t *testing.T) {
	svc := NewProjectService(&fakeProjectStore{}, customerReaderWith(4))

	_, err := svc.Update(context.Background(), ProjectInput{
		ID:         99,
		CustomerID: 4,
		Name:       "工事",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
