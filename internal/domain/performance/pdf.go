package performance

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

func renderReviewPDF(view ReviewView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Performance Review")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	line := func(format string, args ...any) {
		pdf.Cell(0, 8, fmt.Sprintf(format, args...))
		pdf.Ln(7)
	}
	line("Employee: %s (%s)", view.EmployeeName, view.EmployeeID)
	if view.Department != "" || view.Position != "" {
		line("Role: %s, %s", view.Position, view.Department)
	}
	line("Reviewer: %s", view.ReviewerName)
	line("Period: %s to %s", view.ReviewPeriodStart.Format("2006-01-02"), view.ReviewPeriodEnd.Format("2006-01-02"))
	line("Status: %s", view.Status)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	line("Ratings")
	pdf.SetFont("Helvetica", "", 12)
	for _, rating := range []struct {
		label string
		value *float64
	}{
		{"Overall", view.OverallRating},
		{"Technical skills", view.TechnicalSkills},
		{"Communication", view.Communication},
		{"Teamwork", view.Teamwork},
		{"Leadership", view.Leadership},
		{"Punctuality", view.Punctuality},
		{"Goals achieved", view.GoalsAchieved},
	} {
		if rating.value == nil {
			line("%s: n/a", rating.label)
			continue
		}
		line("%s: %.1f / 5", rating.label, *rating.value)
	}

	for _, block := range []struct{ title, body string }{
		{"Comments", view.Comments},
		{"Feedback", view.Feedback},
	} {
		if block.body == "" {
			continue
		}
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 12)
		line("%s", block.title)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, block.body, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
