package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

const maxFileNameLength = 40

// Table renders the ranked results. Failed documents show their error instead of a score.
func Table(w io.Writer, results []screening.Result, spec keywords.Spec) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No candidates to show.")
		return err
	}

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		row := []string{strconv.Itoa(i + 1), truncate(r.FileName, maxFileNameLength)}

		if r.Success() {
			missing := Missing(spec, *r.Record)
			row = append(row,
				strconv.Itoa(r.Record.Percentage),
				fmt.Sprintf("%d/%d", r.Record.WeightedScore, r.Record.MaxScore),
				strings.Join(missing.MustHave, listSeparator),
			)
		} else {
			row = append(row, "-", "-", "error: "+r.Err.Error())
		}

		rows = append(rows, row)
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "File", "Match %", "Score", "Missing Must-Haves")
	if err := table.Bulk(rows); err != nil {
		return err
	}

	return table.Render()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
