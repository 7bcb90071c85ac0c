package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/reconcile"
)

type fakeDocumentStore struct {
	doc     *model.Document
	details []model.DocumentDetail
	view    *model.DocumentView
	maxID   int

	draftCreated *model.Document
	savedDoc     *model.Document
	savedPlan    *reconcile.Plan
	createdDoc   *model.Document
	createdPlan  *reconcile.Plan
	deletedID    int
}

func (f *fakeDocumentStore) List(ctx context.Context, t model.DocumentType) ([]model.DocumentListItem, error) {
	return nil, nil
}

func (f *fakeDocumentStore) GetByProject(ctx context.Context, t model.DocumentType, projectID int) (*model.Document, error) {
	if f.doc == nil || f.doc.ProjectID != projectID {
		return nil, gorm.ErrRecordNotFound
	}
	doc := *f.doc
	return &doc, nil
}

func (f *fakeDocumentStore) GetByID(ctx context.Context, t model.DocumentType, id int) (*model.Document, error) {
	if f.doc == nil || f.doc.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	doc := *f.doc
	return &doc, nil
}

func (f *fakeDocumentStore) GetView(ctx context.Context, t model.DocumentType, projectID int) (*model.DocumentView, error) {
	if f.view == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.view, nil
}

func (f *fakeDocumentStore) ListDetails(ctx context.Context, t model.DocumentType, documentID int) ([]model.DocumentDetail, error) {
	return f.details, nil
}

func (f *fakeDocumentStore) MaxDetailID(ctx context.Context, t model.DocumentType) (int, error) {
	return f.maxID, nil
}

func (f *fakeDocumentStore) NewNumber(t model.DocumentType, now time.Time) string {
	return t.NumberPrefix() + now.Format("20060102") + "042"
}

func (f *fakeDocumentStore) CreateDraft(ctx context.Context, t model.DocumentType, doc model.Document) (*model.Document, error) {
	doc.ID = 1
	f.draftCreated = &doc
	if f.view == nil {
		f.view = &model.DocumentView{Document: doc}
	}
	return &doc, nil
}

func (f *fakeDocumentStore) CreateWithDetails(ctx context.Context, t model.DocumentType, doc model.Document, plan reconcile.Plan) (*model.Document, error) {
	doc.ID = 1
	f.createdDoc = &doc
	f.createdPlan = &plan
	if f.view == nil {
		f.view = &model.DocumentView{Document: doc}
	}
	return &doc, nil
}

func (f *fakeDocumentStore) SaveWithDetails(ctx context.Context, t model.DocumentType, doc model.Document, plan reconcile.Plan) error {
	f.savedDoc = &doc
	f.savedPlan = &plan
	f.view = &model.DocumentView{Document: doc}
	return nil
}

func (f *fakeDocumentStore) Delete(ctx context.Context, t model.DocumentType, id int) error {
	if f.doc == nil || f.doc.ID != id {
		return gorm.ErrRecordNotFound
	}
	f.deletedID = id
	return nil
}

type fakeProjectReader struct {
	projects map[int]*model.ProjectView
}

func (f *fakeProjectReader) Get(ctx context.Context, id int) (*model.ProjectView, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func projectReaderWith(ids ...int) *fakeProjectReader {
	r := &fakeProjectReader{projects: map[int]*model.ProjectView{}}
	for _, id := range ids {
		r.projects[id] = &model.ProjectView{Project: model.Project{ID: id}}
	}
	return r
}

func intPtr(v int) *int { return &v }

func TestDocumentServiceUpdateReconcilesLines(t *testing.T) {
	store := &fakeDocumentStore{
		doc: &model.Document{
			ID:        3,
			ProjectID: 10,
			TaxMode:   model.TaxModeExclusive,
			Status:    string(model.QuotationStatusDraft),
		},
		details: []model.DocumentDetail{
			{ID: 7, DocumentID: 3},
			{ID: 8, DocumentID: 3},
		},
		maxID: 8,
	}
	svc := NewDocumentService(store, projectReaderWith(10))

	view, err := svc.Update(context.Background(), UpdateDocumentInput{
		Type:      model.DocumentTypeQuotation,
		ProjectID: 10,
		Details: []DetailInput{
			{DetailID: intPtr(7), ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(500)},
			{ProductName: "足場材", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
		Principal: model.Principal{UserID: 5},
	})
	require.NoError(t, err)
	require.NotNil(t, view)

	require.NotNil(t, store.savedPlan)
	require.Len(t, store.savedPlan.Updates, 1)
	assert.Equal(t, 7, store.savedPlan.Updates[0].DetailID)
	require.Len(t, store.savedPlan.Inserts, 1)
	assert.Equal(t, 9, store.savedPlan.Inserts[0].DetailID)
	assert.Equal(t, []int{8}, store.savedPlan.DeleteIDs)

	require.NotNil(t, store.savedDoc)
	assert.Equal(t, int64(1100), store.savedDoc.Subtotal)
	assert.Equal(t, int64(110), store.savedDoc.TaxAmount)
	assert.Equal(t, int64(1210), store.savedDoc.TotalAmount)
	assert.Equal(t, 5, store.savedDoc.UpdatedBy)
}

func TestDocumentServiceUpdateKeepsCurrentTaxMode(t *testing.T) {
	store := &fakeDocumentStore{
		doc: &model.Document{ID: 3, ProjectID: 10, TaxMode: model.TaxModeInclusive},
	}
	svc := NewDocumentService(store, projectReaderWith(10))

	_, err := svc.Update(context.Background(), UpdateDocumentInput{
		Type:      model.DocumentTypeQuotation,
		ProjectID: 10,
		Details: []DetailInput{
			{ProductName: "材料", Quantity: 1, UnitPrice: decimal.NewFromInt(1210)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaxModeInclusive, store.savedDoc.TaxMode)
	assert.Equal(t, int64(1100), store.savedDoc.Subtotal)
	assert.Equal(t, int64(110), store.savedDoc.TaxAmount)
}

func TestDocumentServiceUpdateNotFound(t *testing.T) {
	store := &fakeDocumentStore{}
	svc := NewDocumentService(store, projectReaderWith(10))

	_, err := svc.Update(context.Background(), UpdateDocumentInput{
		Type:      model.DocumentTypeInvoice,
		ProjectID: 10,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentServiceCreateRejectsSecondDocument(t *testing.T) {
	store := &fakeDocumentStore{
		doc: &model.Document{ID: 3, ProjectID: 10},
	}
	svc := NewDocumentService(store, projectReaderWith(10))

	_, err := svc.Create(context.Background(), CreateDocumentInput{
		Type:      model.DocumentTypeQuotation,
		ProjectID: 10,
		Details: []DetailInput{
			{ProductName: "材料", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDocumentServiceCreateUnknownProject(t *testing.T) {
	svc := NewDocumentService(&fakeDocumentStore{}, projectReaderWith())

	_, err := svc.Create(context.Background(), CreateDocumentInput{
		Type:      model.DocumentTypeQuotation,
		ProjectID: 99,
		Details: []DetailInput{
			{ProductName: "材料", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentServicePreviewCreatesDraftLazily(t *testing.T) {
	store := &fakeDocumentStore{}
	svc := NewDocumentService(store, projectReaderWith(10))

	view, err := svc.Preview(context.Background(), model.DocumentTypeInvoice, 10, model.Principal{UserID: 2})
	require.NoError(t, err)
	require.NotNil(t, view)

	require.NotNil(t, store.draftCreated)
	assert.Equal(t, 10, store.draftCreated.ProjectID)
	assert.Equal(t, string(model.InvoiceStatusDraft), store.draftCreated.Status)
	assert.Equal(t, model.TaxModeExclusive, store.draftCreated.TaxMode)
	assert.Equal(t, int64(0), store.draftCreated.TotalAmount)
	assert.Equal(t, 2, store.draftCreated.CreatedBy)
}

func TestDocumentServicePreviewExistingDocumentDoesNotWrite(t *testing.T) {
	store := &fakeDocumentStore{
		view: &model.DocumentView{Document: model.Document{ID: 3, ProjectID: 10}},
	}
	svc := NewDocumentService(store, projectReaderWith(10))

	view, err := svc.Preview(context.Background(), model.DocumentTypeQuotation, 10, model.Principal{})
	require.NoError(t, err)
	assert.Equal(t, 3, view.ID)
	assert.Nil(t, store.draftCreated)
}

func TestDocumentServicePreviewUnknownProject(t *testing.T) {
	svc := NewDocumentService(&fakeDocumentStore{}, projectReaderWith())

	_, err := svc.Preview(context.Background(), model.DocumentTypeQuotation, 10, model.Principal{})
	assert.ErrorIs(t, err, ErrNotFound)
}

// refetchFailingStore misses the first view lookup so the draft gets
// created, then fails the refetch with a hard error.
type refetchFailingStore struct {
	*fakeDocumentStore
	refetchErr error
}

func (f *refetchFailingStore) GetView(ctx context.Context, t model.DocumentType, projectID int) (*model.DocumentView, error) {
	if f.draftCreated == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return nil, f.refetchErr
}

func TestDocumentServicePreviewReadAfterWriteFailure(t *testing.T) {
	store := &refetchFailingStore{
		fakeDocumentStore: &fakeDocumentStore{},
		refetchErr:        errors.New("connection reset"),
	}
	svc := NewDocumentService(store, projectReaderWith(10))

	_, err := svc.Preview(context.Background(), model.DocumentTypeQuotation, 10, model.Principal{})
	assert.ErrorIs(t, err, ErrReadAfterWrite)
	assert.NotNil(t, store.draftCreated)
}

func TestDocumentServiceValidateDetails(t *testing.T) {
	svc := NewDocumentService(&fakeDocumentStore{}, projectReaderWith(10))

	tests := []struct {
		name    string
		details []DetailInput
	}{
		{
			name:    "negative quantity",
			details: []DetailInput{{ProductID: 1, Quantity: -1, UnitPrice: decimal.NewFromInt(100)}},
		},
		{
			name:    "negative unit price",
			details: []DetailInput{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(-100)}},
		},
		{
			name:    "no product reference",
			details: []DetailInput{{Quantity: 1, UnitPrice: decimal.NewFromInt(100)}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), CreateDocumentInput{
				Type:      model.DocumentTypeQuotation,
				ProjectID: 10,
				Details:   tt.details,
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDocumentServiceDelete(t *testing.T) {
	store := &fakeDocumentStore{doc: &model.Document{ID: 3, ProjectID: 10}}
	svc := NewDocumentService(store, projectReaderWith(10))

	require.NoError(t, svc.Delete(context.Background(), model.DocumentTypeQuotation, 3))
	assert.Equal(t, 3, store.deletedID)

	err := svc.Delete(context.Background(), model.DocumentTypeQuotation, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
