package reports

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"appraisal/internal/domain/core"
	"appraisal/internal/domain/review"
	"appraisal/internal/domain/scoring"
)

// WriteEvaluationPDF renders a printable evaluation summary. Values are
// rounded to two decimals here only; the stored aggregates keep full
// precision.
func WriteEvaluationPDF(w io.Writer, record review.Evaluation, result scoring.Result, employee core.Employee, evaluator core.Employee) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Performance Evaluation")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", employee.Name, employee.Email))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Evaluator: %s", evaluator.Name))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Coverage: %s to %s", record.PeriodStart.Format("2006-01-02"), record.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Review type: %s", record.Selection.Describe()))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 7, "Category", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Average", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Weight", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Weighted", "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 7, "Rating", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, category := range result.Categories {
		pdf.CellFormat(70, 7, category.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", category.Average), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", category.Weight), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", category.Contribution), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, category.Label, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Overall: %.2f / 5.00 (%.2f%%)", result.Overall, result.Percentage))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Verdict: %s", result.Verdict))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Approval status: %s", record.Status))

	if record.PriorityNotes != "" {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, "Priority areas for improvement")
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, record.PriorityNotes, "", "L", false)
	}
	if record.Remarks != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, "Remarks")
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, record.Remarks, "", "L", false)
	}

	return pdf.Output(w)
}
