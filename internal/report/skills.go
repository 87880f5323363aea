package report

import "github.com/NoBugNinja/Skill-Sync/internal/screening"

// SkillReport lists the candidates that matched one skill.
type SkillReport struct {
	Skill      string   `json:"skill"`
	Candidates []string `json:"candidates"`
}

// BySkill groups scored candidates by matched skill. Skills appear in the
// order they are first met in the ranked results.
func BySkill(results []screening.Result) []SkillReport {
	index := make(map[string]int)
	reports := make([]SkillReport, 0)

	for _, r := range results {
		if !r.Success() {
			continue
		}

		for _, skill := range screening.MatchedSkills(r) {
			i, ok := index[skill]
			if !ok {
				i = len(reports)
				index[skill] = i
				reports = append(reports, SkillReport{Skill: skill})
			}
			reports[i].Candidates = append(reports[i].Candidates, r.FileName)
		}
	}

	return reports
}
