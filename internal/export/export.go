// Package export writes the task list as JSON, CSV or PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Makepad-fr/lister/internal/model"
	"github.com/jung-kurt/gofpdf"
)

// Formats lists the accepted format names.
var Formats = []string{"json", "csv", "pdf"}

// Write renders tasks (already in display order) to w.
func Write(w io.Writer, tasks []model.Task, format string, now time.Time) error {
	switch strings.ToLower(format) {
	case "json":
		if tasks == nil {
			tasks = []model.Task{}
		}
		b, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = w.Write(append(b, '\n'))
		return err
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "title", "completed", "created_at"}); err != nil {
			return fmt.Errorf("csv header: %w", err)
		}
		for _, t := range tasks {
			// write errors are sticky and surface through cw.Error below
			cw.Write([]string{
				t.ID,
				t.Title,
				strconv.FormatBool(t.Completed),
				t.Created().UTC().Format(time.RFC3339),
			})
		}
		cw.Flush()
		return cw.Error()
	case "pdf":
		return writePDF(w, tasks, now)
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

func writePDF(w io.Writer, tasks []model.Task, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, now.Weekday().String()+"'s Tasks")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	if len(tasks) == 0 {
		pdf.Cell(0, 8, "All Done :)")
		pdf.Ln(8)
	}
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
			pdf.SetTextColor(120, 120, 120)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		line := fmt.Sprintf("%s %s", box, tr(t.Title))
		if t.Completed {
			line += "  COMPLETE"
		}
		pdf.MultiCell(0, 7, line, "0", "L", false)
	}
	return pdf.Output(w)
}
