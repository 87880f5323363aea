package report

import (
	"sync"

	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

// Dataset is the data behind one chart.
type Dataset struct {
	Title  string   `json:"title"`
	Kind   string   `json:"kind"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Charts is a handle on the rendered dashboard charts. The owner disposes of
// it with Close before rendering the next batch.
type Charts struct {
	TopSkills    Dataset `json:"topSkills"`
	Distribution Dataset `json:"distribution"`

	mu     sync.Mutex
	closed bool
}

// RenderCharts builds the chart datasets for a summary, closing prev first.
// It returns nil when there is no summary to chart.
func RenderCharts(prev *Charts, s *screening.Summary) *Charts {
	if prev != nil && !prev.Closed() {
		prev.Close()
	}

	if s == nil {
		return nil
	}

	charts := &Charts{
		TopSkills:    Dataset{Title: "Top Skills", Kind: "bar"},
		Distribution: Dataset{Title: "Score Distribution", Kind: "doughnut"},
	}

	for _, f := range s.SkillFrequencies {
		charts.TopSkills.Labels = append(charts.TopSkills.Labels, f.Skill)
		charts.TopSkills.Values = append(charts.TopSkills.Values, f.Count)
	}

	for _, label := range screening.BucketLabels {
		charts.Distribution.Labels = append(charts.Distribution.Labels, label)
		charts.Distribution.Values = append(charts.Distribution.Values, s.ScoreBuckets[label])
	}

	return charts
}

// Close releases the chart data. It is safe to call more than once.
func (c *Charts) Close() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.TopSkills = Dataset{}
	c.Distribution = Dataset{}
}

// Closed reports whether Close was called. A nil handle counts as closed.
func (c *Charts) Closed() bool {
	if c == nil {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
