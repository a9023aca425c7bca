package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
)

// Row is one labelled line of the results table.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Report struct {
	Title   string `json:"title"`
	Project string `json:"project"`
	Author  string `json:"author"`
	Notes   string `json:"notes"`
	Rows    []Row  `json:"rows"`
}

const defaultTitle = "Engineering Report"

// Render writes rep to w as a single A4 PDF document.
func Render(w io.Writer, rep Report) error {
	if rep.Title == "" {
		rep.Title = defaultTitle
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(rep.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	if rep.Project != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", rep.Project)))
		pdf.Ln(6)
	}
	if rep.Author != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", rep.Author)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	if len(rep.Rows) > 0 {
		for _, row := range rep.Rows {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(70, 7, tr(row.Label), "1", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.CellFormat(0, 7, tr(row.Value), "1", 1, "L", false, 0, "")
		}
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(printable(rep.Notes)), "", "L", false)
	return pdf.Output(w)
}

// printable drops runes the core fonts cannot draw, such as emoji.
func printable(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r < 0x2000 || r == '\n' {
			out = append(out, r)
		}
	}
	return string(out)
}
