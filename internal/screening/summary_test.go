package screening

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/scoring"
)

func success(name string, percentage int, must, nice []string) Result {
	return NewSuccess(name, "", scoring.Record{
		WeightedScore:     percentage,
		MaxScore:          100,
		Percentage:        percentage,
		MatchedMustHave:   must,
		MatchedNiceToHave: nice,
	})
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	results := []Result{
		success("a", 100, []string{"Python", "SQL"}, []string{"Docker"}),
		success("b", 50, []string{"SQL"}, nil),
		success("c", 20, nil, []string{"Docker"}),
		NewFailure("d", errors.New("broken"), false),
	}

	summary := Summarize(results, DefaultTopSkills)
	require.NotNil(t, summary)

	assert.Equal(t, 3, summary.TotalCandidates)
	assert.Equal(t, 57, summary.AvgMatchScore)
	assert.Equal(t, "SQL", summary.TopSkill)
	assert.Equal(t, []SkillCount{
		{Skill: "SQL", Count: 2},
		{Skill: "Docker", Count: 2},
		{Skill: "Python", Count: 1},
	}, summary.SkillFrequencies)
	assert.Equal(t, map[string]int{
		"0-25%":   1,
		"26-50%":  1,
		"51-75%":  0,
		"76-100%": 1,
	}, summary.ScoreBuckets)
}

func TestSummarizeNoSuccesses(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Summarize(nil, 5))
	assert.Nil(t, Summarize([]Result{NewFailure("a", errors.New("x"), false)}, 5))
}

func TestSummarizeNoMatchedSkills(t *testing.T) {
	t.Parallel()

	summary := Summarize([]Result{success("a", 0, []string{}, []string{})}, 5)
	require.NotNil(t, summary)

	assert.Equal(t, NoTopSkill, summary.TopSkill)
	assert.Empty(t, summary.SkillFrequencies)
	assert.Equal(t, 1, summary.ScoreBuckets["0-25%"])
}

func TestSummarizeTopSkillsLimit(t *testing.T) {
	t.Parallel()

	skills := []string{"Go", "Rust", "SQL", "Docker", "Kafka", "Redis", "Linux"}
	summary := Summarize([]Result{success("a", 90, skills, nil)}, 5)
	require.NotNil(t, summary)

	require.Len(t, summary.SkillFrequencies, 5)
	assert.Equal(t, "Go", summary.TopSkill)
	assert.Equal(t, "Kafka", summary.SkillFrequencies[4].Skill)

	summary = Summarize([]Result{success("a", 90, skills, nil)}, 2)
	assert.Len(t, summary.SkillFrequencies, 2)
}

func TestSummarizeAverageRoundsHalfUp(t *testing.T) {
	t.Parallel()

	summary := Summarize([]Result{success("a", 50, nil, nil), success("b", 51, nil, nil)}, 5)
	require.NotNil(t, summary)
	assert.Equal(t, 51, summary.AvgMatchScore)
}

func TestBucket(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		0:   "0-25%",
		25:  "0-25%",
		26:  "26-50%",
		50:  "26-50%",
		51:  "51-75%",
		75:  "51-75%",
		76:  "76-100%",
		100: "76-100%",
	}

	for percentage, expect := range tests {
		if got := Bucket(percentage); got != expect {
			t.Fatalf("Bucket(%d): expected %q, got %q", percentage, expect, got)
		}
	}
}

func TestSummarizeCountsPhraseOncePerDocument(t *testing.T) {
	t.Parallel()

	spec := keywords.Spec{MustHave: []string{"Python"}, NiceToHave: []string{"Python", "Go"}}
	docs := []Document{
		{FileName: "a.txt", RawText: "python"},
		{FileName: "b.txt", RawText: "go go"},
		{FileName: "c.txt", RawText: "go"},
	}

	batch, err := Run(context.Background(), docs, spec)
	require.NoError(t, err)
	require.NotNil(t, batch.Summary)

	assert.Equal(t, []string{"Python"}, batch.Results[0].Record.MatchedMustHave)
	assert.Equal(t, []string{"Python"}, batch.Results[0].Record.MatchedNiceToHave)

	assert.Equal(t, []SkillCount{
		{Skill: "Go", Count: 2},
		{Skill: "Python", Count: 1},
	}, batch.Summary.SkillFrequencies)
	assert.Equal(t, "Go", batch.Summary.TopSkill)
}

func TestMatchedSkills(t *testing.T) {
	t.Parallel()

	r := success("a", 80, []string{"Python", "SQL"}, []string{"Python", "Docker"})
	assert.Equal(t, []string{"Python", "SQL", "Docker"}, MatchedSkills(r))

	assert.Nil(t, MatchedSkills(NewFailure("b", errors.New("x"), false)))
}
