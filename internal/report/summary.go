package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

const barWidth = 20

// Summary prints the batch dashboard. Nothing is printed for a nil summary.
func Summary(w io.Writer, s *screening.Summary) error {
	if s == nil {
		return nil
	}

	var b strings.Builder

	b.WriteString("Screening Summary\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "  Candidates:     %d\n", s.TotalCandidates)
	fmt.Fprintf(&b, "  Average match:  %d%%\n", s.AvgMatchScore)
	fmt.Fprintf(&b, "  Top skill:      %s\n", s.TopSkill)
	b.WriteString("\n")

	if len(s.SkillFrequencies) > 0 {
		b.WriteString("Top Skills\n")
		b.WriteString(strings.Repeat("-", 30) + "\n")

		labels := make([]string, 0, len(s.SkillFrequencies))
		values := make([]int, 0, len(s.SkillFrequencies))
		for _, f := range s.SkillFrequencies {
			labels = append(labels, f.Skill)
			values = append(values, f.Count)
		}
		writeBars(&b, labels, values)
		b.WriteString("\n")
	}

	b.WriteString("Score Distribution\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	values := make([]int, 0, len(screening.BucketLabels))
	for _, label := range screening.BucketLabels {
		values = append(values, s.ScoreBuckets[label])
	}
	writeBars(&b, screening.BucketLabels, values)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBars(b *strings.Builder, labels []string, values []int) {
	width := 0
	maxValue := 0
	for i, label := range labels {
		if n := len([]rune(label)); n > width {
			width = n
		}
		if values[i] > maxValue {
			maxValue = values[i]
		}
	}

	for i, label := range labels {
		bar := ""
		if maxValue > 0 {
			bar = strings.Repeat("█", values[i]*barWidth/maxValue)
		}
		pad := strings.Repeat(" ", width-len([]rune(label)))
		fmt.Fprintf(b, "  %s%s %s %d\n", label, pad, bar, values[i])
	}
}
