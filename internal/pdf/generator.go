package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

// Generator renders quotations and invoices with the built-in core fonts.
// Non-latin characters in free-text fields are transliterated by the cp1252
// translator and may degrade; the numeric content is always exact.
type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Render(view *model.DocumentView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, documentTitle(view.Type), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("No. %s", view.Number), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Issue date: %s", formatDate(view.IssueDate)), "", 1, "C", false, 0, "")
	if view.ExpiryDate != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", expiryLabel(view.Type), formatDate(*view.ExpiryDate)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Customer", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	for _, line := range []string{
		tr(safeValue(view.CustomerName)),
		fmt.Sprintf("Postal code: %s", safeValue(view.CustomerPostalCode)),
		fmt.Sprintf("Address: %s", tr(safeValue(view.CustomerAddress))),
	} {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Project", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.MultiCell(0, 5, fmt.Sprintf("%s  %s", safeValue(view.ProjectCode), tr(safeValue(view.ProjectName))), "", "L", false)
	pdf.Ln(4)

	headers := []string{"Item", "Qty", "Unit", "Unit price", "Amount"}
	colWidths := []float64{80, 20, 20, 30, 30}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)
	for _, detail := range view.Details {
		row := []string{
			tr(safeValue(detail.ProductName)),
			fmt.Sprintf("%d", detail.Quantity),
			tr(safeValue(detail.Unit)),
			detail.UnitPrice.StringFixed(0),
			fmt.Sprintf("%d", detail.Amount),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Subtotal: %d JPY", view.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Tax (%s): %d JPY", taxModeLabel(view.TaxMode), view.TaxAmount), "", 1, "R", false, 0, "")
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total: %d JPY", view.TotalAmount), "", 1, "R", false, 0, "")

	if strings.TrimSpace(view.Notes) != "" {
		pdf.Ln(4)
		pdf.SetFont(g.fontName, "B", 11)
		pdf.CellFormat(0, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, tr(view.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func documentTitle(t model.DocumentType) string {
	if t == model.DocumentTypeInvoice {
		return "INVOICE"
	}
	return "QUOTATION"
}

func expiryLabel(t model.DocumentType) string {
	if t == model.DocumentTypeInvoice {
		return "Due date"
	}
	return "Valid until"
}

func taxModeLabel(mode model.TaxMode) string {
	if mode == model.TaxModeInclusive {
		return "included"
	}
	return "10%"
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
