package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Export writes the document list into a single-sheet workbook.
func (g *Generator) Export(t model.DocumentType, items []model.DocumentListItem) ([]byte, error) {
	file := excelize.NewFile()

	sheet := sheetName(t)
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"番号",
		"案件",
		"顧客",
		"発行日",
		"合計金額",
		"ステータス",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, item := range items {
		row := i + 2
		set(fmt.Sprintf("A%d", row), item.Number)
		set(fmt.Sprintf("B%d", row), item.ProjectName)
		set(fmt.Sprintf("C%d", row), item.CustomerName)
		set(fmt.Sprintf("D%d", row), formatDate(item.IssueDate))
		set(fmt.Sprintf("E%d", row), item.TotalAmount)
		set(fmt.Sprintf("F%d", row), item.Status)
	}

	_ = file.SetColWidth(sheet, "A", "A", 18)
	_ = file.SetColWidth(sheet, "B", "C", 32)
	_ = file.SetColWidth(sheet, "D", "D", 14)
	_ = file.SetColWidth(sheet, "E", "E", 14)
	_ = file.SetColWidth(sheet, "F", "F", 12)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sheetName(t model.DocumentType) string {
	if t == model.DocumentTypeInvoice {
		return "請求書一覧"
	}
	return "見積書一覧"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
