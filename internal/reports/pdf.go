package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// renderStatusSummaryPDF draws the submission status table for one academic
// year: one line per (template, department).
func renderStatusSummaryPDF(yearName string, rows []StatusSummaryRow) ([]byte, string, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(100, 10, "Submission Status Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(100, 6, fmt.Sprintf("Academic Year: %s    Generated: %s",
		yearName, time.Now().Format("2006-01-02 15:04:05")))
	pdf.Ln(10)

	headers := []string{"Template", "Name", "Department", "Status", "Rows", "Last Updated"}
	widths := []float64{35, 80, 60, 25, 18, 42}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(220, 230, 241)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.TemplateCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, truncate(r.TemplateName, 48), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, truncate(r.DepartmentName, 36), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprint(r.RowCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, r.UpdatedAt.Format("2006-01-02 15:04:05"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	if len(rows) == 0 {
		pdf.CellFormat(sum(widths), 6, "No submissions for this academic year", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", "", err
	}

	filename := fmt.Sprintf("submission_status_%s.pdf", yearName)
	return buf.Bytes(), filename, "application/pdf", nil
}

// truncate shortens on rune boundaries; names can carry non-ASCII text.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func sum(ws []float64) float64 {
	total := 0.0
	for _, w := range ws {
		total += w
	}
	return total
}
