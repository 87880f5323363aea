package screening

import "sort"

const (
	// DefaultTopSkills is the number of skills listed in a summary.
	DefaultTopSkills = 5
	// NoTopSkill is reported when no skill matched in any document.
	NoTopSkill = "N/A"
)

// BucketLabels lists the score distribution buckets in display order.
// Upper bounds are inclusive.
var BucketLabels = []string{"0-25%", "26-50%", "51-75%", "76-100%"}

// SkillCount is the number of scored documents that matched a skill.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// Summary aggregates the successful results of a batch.
type Summary struct {
	TotalCandidates  int            `json:"totalCandidates"`
	AvgMatchScore    int            `json:"avgMatchScore"`
	TopSkill         string         `json:"topSkill"`
	SkillFrequencies []SkillCount   `json:"skillFrequencies"`
	ScoreBuckets     map[string]int `json:"scoreBuckets"`
}

// Summarize computes summary statistics over the successes of ranked results.
// It returns nil when there is none. Skill ties are broken by first appearance
// in ranked order, must-have entries before nice-to-have ones.
func Summarize(results []Result, topSkills int) *Summary {
	if topSkills <= 0 {
		topSkills = DefaultTopSkills
	}

	buckets := make(map[string]int, len(BucketLabels))
	for _, label := range BucketLabels {
		buckets[label] = 0
	}

	var (
		total  int
		sum    int
		counts = make(map[string]int)
		order  []string
	)

	for _, r := range results {
		if !r.Success() {
			continue
		}

		total++
		sum += r.Record.Percentage
		buckets[Bucket(r.Record.Percentage)]++

		for _, skill := range MatchedSkills(r) {
			if _, ok := counts[skill]; !ok {
				order = append(order, skill)
			}
			counts[skill]++
		}
	}

	if total == 0 {
		return nil
	}

	frequencies := make([]SkillCount, 0, len(order))
	for _, skill := range order {
		frequencies = append(frequencies, SkillCount{Skill: skill, Count: counts[skill]})
	}
	sort.SliceStable(frequencies, func(i, j int) bool {
		return frequencies[i].Count > frequencies[j].Count
	})

	topSkill := NoTopSkill
	if len(frequencies) > 0 {
		topSkill = frequencies[0].Skill
	}

	if len(frequencies) > topSkills {
		frequencies = frequencies[:topSkills]
	}

	return &Summary{
		TotalCandidates:  total,
		AvgMatchScore:    (2*sum + total) / (2 * total),
		TopSkill:         topSkill,
		SkillFrequencies: frequencies,
		ScoreBuckets:     buckets,
	}
}

// MatchedSkills returns the distinct phrases matched by a successful result,
// must-have entries first. A phrase listed in both tiers appears once.
func MatchedSkills(r Result) []string {
	if !r.Success() {
		return nil
	}

	size := len(r.Record.MatchedMustHave) + len(r.Record.MatchedNiceToHave)
	seen := make(map[string]struct{}, size)
	skills := make([]string, 0, size)

	for _, list := range [][]string{r.Record.MatchedMustHave, r.Record.MatchedNiceToHave} {
		for _, skill := range list {
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			skills = append(skills, skill)
		}
	}

	return skills
}

// Bucket returns the distribution bucket label of a percentage.
func Bucket(percentage int) string {
	switch {
	case percentage <= 25:
		return BucketLabels[0]
	case percentage <= 50:
		return BucketLabels[1]
	case percentage <= 75:
		return BucketLabels[2]
	default:
		return BucketLabels[3]
	}
}
