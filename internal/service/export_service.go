package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

type DocumentPDFRenderer interface {
	Render(view *model.DocumentView) ([]byte, error)
}

type DocumentListExporter interface {
	Export(t model.DocumentType, items []model.DocumentListItem) ([]byte, error)
}

type ExportService struct {
	documents DocumentStore
	pdf       DocumentPDFRenderer
	excel     DocumentListExporter
}

func NewExportService(documents DocumentStore, pdf DocumentPDFRenderer, excel DocumentListExporter) *ExportService {
	return &ExportService{documents: documents, pdf: pdf, excel: excel}
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// RenderPDF renders the project's document of the given type. Unlike
// Preview, a missing document is a not-found, never a lazy create.
func (s *ExportService) RenderPDF(ctx context.Context, t model.DocumentType, projectID int) (*ExportResult, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: invalid document type", ErrInvalidInput)
	}
	if projectID <= 0 {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}

	view, err := s.documents.GetView(ctx, t, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no %s for project %d", ErrNotFound, t, projectID)
		}
		return nil, err
	}

	content, err := s.pdf.Render(view)
	if err != nil {
		return nil, fmt.Errorf("render %s pdf: %w", t, err)
	}
	return &ExportResult{
		FileName: fmt.Sprintf("%s.pdf", view.Number),
		Content:  content,
	}, nil
}

// ExportList writes the full document list of a type into a workbook.
func (s *ExportService) ExportList(ctx context.Context, t model.DocumentType) (*ExportResult, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: invalid document type", ErrInvalidInput)
	}

	items, err := s.documents.List(ctx, t)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Export(t, items)
	if err != nil {
		return nil, fmt.Errorf("export %s list: %w", t, err)
	}
	return &ExportResult{
		FileName: fmt.Sprintf("%ss_%s.xlsx", t, time.Now().Format("20060102")),
		Content:  content,
	}, nil
}
