package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/scoring"
	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

var spec = keywords.Spec{
	MustHave:   []string{"Python", "SQL"},
	NiceToHave: []string{"Docker", "Kubernetes"},
}

func testBatch() *screening.Batch {
	results := []screening.Result{
		screening.NewSuccess("jane, doe.pdf", "", scoring.Record{WeightedScore: 7, MaxScore: 8, Percentage: 88,
			MatchedMustHave: []string{"Python", "SQL"}, MatchedNiceToHave: []string{"Docker"}}),
		screening.NewSuccess("john.pdf", "", scoring.Record{WeightedScore: 3, MaxScore: 8, Percentage: 38,
			MatchedMustHave: []string{"Python"}, MatchedNiceToHave: []string{}}),
		screening.NewFailure("scan.pdf", errors.New("could not read this PDF"), false),
	}
	return &screening.Batch{RunID: "run-1", Keywords: spec, Results: results, Summary: screening.Summarize(results, 5)}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testBatch()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"jane, doe.pdf", "88", "7", "8", "Python, SQL", "Docker"}, records[1])
	assert.Equal(t, []string{"john.pdf", "38", "3", "8", "Python", ""}, records[2])
}

func TestWriteCSVOnlyHeaderWhenAllFailed(t *testing.T) {
	t.Parallel()

	batch := &screening.Batch{Results: []screening.Result{screening.NewFailure("a.pdf", errors.New("x"), false)}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, batch))
	assert.Equal(t, strings.Join(CSVHeader, ",")+"\n", buf.String())
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ExportCSV(path, testBatch()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "File Name,Match %,Score,Max Score"))
}

func TestDumpToTmpFile(t *testing.T) {
	t.Parallel()

	name, err := DumpToTmpFile(testBatch())
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded["runId"])
	assert.Len(t, decoded["results"], 3)
}

func TestTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	batch := testBatch()
	require.NoError(t, Table(&buf, batch.Results, batch.Keywords))

	out := buf.String()
	assert.Contains(t, out, "john.pdf")
	assert.Contains(t, out, "3/8")
	assert.Contains(t, out, "could not read this PDF")

	buf.Reset()
	require.NoError(t, Table(&buf, nil, spec))
	assert.Equal(t, "No candidates to show.\n", buf.String())
}

func TestSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, testBatch().Summary))

	out := buf.String()
	assert.Contains(t, out, "Candidates:     2")
	assert.Contains(t, out, "Average match:  63%")
	assert.Contains(t, out, "Top skill:      Python")
	assert.Contains(t, out, "76-100% ")
	assert.Contains(t, out, "█")

	buf.Reset()
	require.NoError(t, Summary(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestMissing(t *testing.T) {
	t.Parallel()

	missing := Missing(spec, scoring.Record{MatchedMustHave: []string{"SQL"}, MatchedNiceToHave: []string{"Docker"}})
	assert.Equal(t, []string{"Python"}, missing.MustHave)
	assert.Equal(t, []string{"Kubernetes"}, missing.NiceToHave)
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	mark := func(s string) string { return "[" + s + "]" }

	tests := []struct {
		name    string
		text    string
		phrases []string
		expect  string
	}{
		{
			name:    "case insensitive whole words",
			text:    "Python, python3 and PYTHON",
			phrases: []string{"python"},
			expect:  "[Python], python3 and [PYTHON]",
		},
		{
			name:    "multi word phrases",
			text:    "Led project management",
			phrases: []string{"project", "project management"},
			expect:  "Led [project management]",
		},
		{
			name:    "meta characters are literal",
			text:    "Knows C.net and Cxnet",
			phrases: []string{"C.net"},
			expect:  "Knows [C.net] and Cxnet",
		},
		{
			name:    "phrases with symbol edges",
			text:    "Knows C++, c# and .NET; not abc++",
			phrases: []string{"C++", "C#", ".NET"},
			expect:  "Knows [C++], [c#] and [.NET]; not abc++",
		},
		{
			name:    "no phrases",
			text:    "unchanged",
			phrases: []string{" "},
			expect:  "unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, Highlight(tt.text, tt.phrases, mark))
		})
	}
}

func TestRenderCharts(t *testing.T) {
	t.Parallel()

	batch := testBatch()

	first := RenderCharts(nil, batch.Summary)
	require.NotNil(t, first)
	assert.Equal(t, []string{"Python", "SQL", "Docker"}, first.TopSkills.Labels)
	assert.Equal(t, []int{2, 1, 1}, first.TopSkills.Values)
	assert.Equal(t, screening.BucketLabels, first.Distribution.Labels)
	assert.Equal(t, []int{0, 1, 0, 1}, first.Distribution.Values)

	second := RenderCharts(first, batch.Summary)
	require.NotNil(t, second)
	assert.True(t, first.Closed())
	assert.False(t, second.Closed())
	assert.Empty(t, first.TopSkills.Labels)

	assert.Nil(t, RenderCharts(second, nil))
	assert.True(t, second.Closed())

	var none *Charts
	assert.True(t, none.Closed())
}

func TestBySkill(t *testing.T) {
	t.Parallel()

	reports := BySkill(testBatch().Results)
	assert.Equal(t, []SkillReport{
		{Skill: "Python", Candidates: []string{"jane, doe.pdf", "john.pdf"}},
		{Skill: "SQL", Candidates: []string{"jane, doe.pdf"}},
		{Skill: "Docker", Candidates: []string{"jane, doe.pdf"}},
	}, reports)

	assert.Empty(t, BySkill(nil))

	both := []screening.Result{
		screening.NewSuccess("a.pdf", "", scoring.Record{
			MatchedMustHave: []string{"Python"}, MatchedNiceToHave: []string{"Python"}}),
	}
	assert.Equal(t, []SkillReport{{Skill: "Python", Candidates: []string{"a.pdf"}}}, BySkill(both))
}
