package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

func TestExportDocumentList(t *testing.T) {
	items := []model.DocumentListItem{
		{
			Number:       "QT20240701042",
			ProjectName:  "外壁改修工事",
			CustomerName: "株式会社テスト",
			IssueDate:    time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			TotalAmount:  1210,
			Status:       "draft",
		},
		{
			Number:       "QT20240702137",
			ProjectName:  "屋根葺き替え",
			CustomerName: "有限会社サンプル",
			IssueDate:    time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC),
			TotalAmount:  55000,
			Status:       "sent",
		},
	}

	content, err := NewGenerator().Export(model.DocumentTypeQuotation, items)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	sheet := "見積書一覧"
	number, err := file.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "QT20240701042", number)

	status, err := file.GetCellValue(sheet, "F3")
	require.NoError(t, err)
	assert.Equal(t, "sent", status)
}

func TestExportEmptyList(t *testing.T) {
	content, err := NewGenerator().Export(model.DocumentTypeInvoice, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}
