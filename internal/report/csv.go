// Package report renders screening batches for people: tables, dashboards,
// CSV exports and highlighted résumé text.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{"File Name", "Match %", "Score", "Max Score", "Matched Must-Haves", "Matched Nice-to-Haves"}

const listSeparator = ", "

// Row is one exported candidate, fields in export order.
type Row struct {
	FileName          string   `json:"fileName"`
	Percentage        int      `json:"percentage"`
	WeightedScore     int      `json:"weightedScore"`
	MaxScore          int      `json:"maxScore"`
	MatchedMustHave   []string `json:"matchedMustHave"`
	MatchedNiceToHave []string `json:"matchedNiceToHave"`
}

// Rows returns the export rows of the successful results in ranked order.
func Rows(batch *screening.Batch) []Row {
	rows := make([]Row, 0, len(batch.Results))
	for _, r := range batch.Successes() {
		rows = append(rows, Row{
			FileName:          r.FileName,
			Percentage:        r.Record.Percentage,
			WeightedScore:     r.Record.WeightedScore,
			MaxScore:          r.Record.MaxScore,
			MatchedMustHave:   r.Record.MatchedMustHave,
			MatchedNiceToHave: r.Record.MatchedNiceToHave,
		})
	}
	return rows
}

func (r Row) record() []string {
	return []string{
		r.FileName,
		strconv.Itoa(r.Percentage),
		strconv.Itoa(r.WeightedScore),
		strconv.Itoa(r.MaxScore),
		strings.Join(r.MatchedMustHave, listSeparator),
		strings.Join(r.MatchedNiceToHave, listSeparator),
	}
}

// WriteCSV writes the header and one row per scored candidate.
func WriteCSV(w io.Writer, batch *screening.Batch) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, row := range Rows(batch) {
		if err := cw.Write(row.record()); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the CSV export to path.
func ExportCSV(path string, batch *screening.Batch) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, batch); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	return file.Close()
}
