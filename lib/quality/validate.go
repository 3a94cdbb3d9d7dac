// Package quality statistically judges whether an extraction of course
// section records is trustworthy. Correctness of a scrape cannot be
// verified structurally, the page offers nothing to check against, so it
// is verified against domain expectations instead: in a popular subject
// most sections carry a waitlist, almost every section names a campus,
// and "seats open" should be the exception, not the rule.
package quality

import (
	"fmt"
	"os"

	"coursewatch-backend/lib/configutil"
	"coursewatch-backend/lib/scrapers/eagle"
	"coursewatch-backend/lib/textutil"

	"dario.cat/mergo"
)

// Criterion is one weighted quality check measured as a percentage of
// records. Inverted criteria treat lower percentages as better, decaying
// past the threshold instead of comparing against it directly.
type Criterion struct {
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
	Threshold float64 `json:"threshold"`
	Invert    bool    `json:"invert"`
}

// Policy carries the thresholds and weights the validator scores against.
// These encode expectations calibrated on one institution's fall-term
// data; they are policy, not universal truth, which is why they are
// configurable at all.
type Policy struct {
	Criteria []Criterion `json:"criteria"`
	// minimum aggregate score for an extraction to pass
	PassingScore float64 `json:"passing_score"`
	// minimum score for an inverted criterion to pass
	InvertPassingScore float64 `json:"invert_passing_score"`
	// cap on records quoted per sample issue
	SampleCap int `json:"sample_cap"`
}

// points lost per percentage point past an inverted criterion's threshold
const invertDecayRate = 3.33

func DefaultPolicy() Policy {
	return Policy{
		Criteria: []Criterion{
			{Name: "realistic_demand", Weight: 50, Threshold: 15, Invert: true},
			{Name: "waitlist_diversity", Weight: 30, Threshold: 60},
			{Name: "campus_completeness", Weight: 25, Threshold: 90},
			{Name: "instructor_completeness", Weight: 20, Threshold: 80},
			{Name: "location_completeness", Weight: 10, Threshold: 70},
			{Name: "data_consistency", Weight: 5, Threshold: 95},
		},
		PassingScore:       75,
		InvertPassingScore: 80,
		SampleCap:          3,
	}
}

// LoadPolicy reads a policy override file (json5), filling anything the
// file leaves out from the defaults. Criteria merge by name, so a file
// tuning one criterion keeps the other five. A missing file just yields
// the defaults.
func LoadPolicy(name string) (Policy, error) {
	policy, err := configutil.ReadConfig[Policy](name)
	if os.IsNotExist(err) {
		return DefaultPolicy(), nil
	}
	if err != nil {
		return Policy{}, err
	}

	defaults := DefaultPolicy()
	policy.Criteria, err = mergeCriteria(policy.Criteria, defaults.Criteria)
	if err != nil {
		return Policy{}, err
	}
	err = mergo.Merge(&policy, defaults)
	if err != nil {
		return Policy{}, err
	}
	return policy, nil
}

func mergeCriteria(overrides, defaults []Criterion) ([]Criterion, error) {
	byName := make(map[string]Criterion, len(overrides))
	for _, c := range overrides {
		byName[c.Name] = c
	}

	merged := make([]Criterion, 0, len(defaults))
	for _, def := range defaults {
		c, ok := byName[def.Name]
		if !ok {
			merged = append(merged, def)
			continue
		}
		delete(byName, def.Name)
		// unset override fields fall through to the default's values
		err := mergo.Merge(&c, def)
		if err != nil {
			return nil, err
		}
		merged = append(merged, c)
	}
	// criteria the defaults don't know about stay, in file order; unknown
	// names still fail loudly at validation time
	for _, c := range overrides {
		if _, extra := byName[c.Name]; extra {
			merged = append(merged, c)
		}
	}
	return merged, nil
}

type CriterionScore struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
	Weight    float64 `json:"weight"`
	Passed    bool    `json:"passed"`
	Details   string  `json:"details"`
}

type SampleIssue struct {
	Type   string               `json:"type"`
	Count  int                  `json:"count"`
	Sample []eagle.CourseRecord `json:"sample"`
}

// Report is the outcome of one validation pass. It is produced fresh per
// call and never mutated afterward.
type Report struct {
	TotalRecords    int              `json:"totalRecords"`
	Criteria        []CriterionScore `json:"criteria"`
	OverallScore    float64          `json:"overallScore"`
	Passed          bool             `json:"passed"`
	Recommendations []string         `json:"recommendations"`
	SampleIssues    []SampleIssue    `json:"sampleIssues"`
}

// Validate scores records against the default policy.
func Validate(records []eagle.CourseRecord) Report {
	return DefaultPolicy().Validate(records)
}

func (p Policy) Validate(records []eagle.CourseRecord) Report {
	report := Report{TotalRecords: len(records)}

	if len(records) == 0 {
		for _, c := range p.Criteria {
			report.Criteria = append(report.Criteria, CriterionScore{
				Name:      c.Name,
				Threshold: c.Threshold,
				Weight:    c.Weight,
				Details:   "no records to measure",
			})
		}
		report.Recommendations = []string{"no records to validate"}
		return report
	}

	var totalWeighted, totalWeight float64
	for _, c := range p.Criteria {
		pct, details := measure(c.Name, records)

		var score float64
		var passed bool
		if c.Invert {
			score = 100
			if pct > c.Threshold {
				score = 100 - (pct-c.Threshold)*invertDecayRate
				if score < 0 {
					score = 0
				}
			}
			passed = score >= p.InvertPassingScore
		} else {
			score = pct
			passed = score >= c.Threshold
		}

		report.Criteria = append(report.Criteria, CriterionScore{
			Name:      c.Name,
			Score:     score,
			Threshold: c.Threshold,
			Weight:    c.Weight,
			Passed:    passed,
			Details:   details,
		})
		totalWeighted += score * c.Weight
		totalWeight += c.Weight

		if !passed {
			report.Recommendations = append(
				report.Recommendations,
				recommend(c, pct),
			)
		}
	}

	if totalWeight > 0 {
		report.OverallScore = totalWeighted / totalWeight
	}
	report.Passed = report.OverallScore >= p.PassingScore

	if len(report.Recommendations) == 0 {
		report.Recommendations = []string{"all quality criteria passed"}
	}
	report.SampleIssues = p.sampleIssues(records)

	return report
}

func percentage(records []eagle.CourseRecord, match func(eagle.CourseRecord) bool) (float64, int) {
	count := 0
	for _, r := range records {
		if match(r) {
			count++
		}
	}
	return float64(count) / float64(len(records)) * 100, count
}

func validCRN(crn string) bool {
	return len(crn) == 5 && textutil.IsDigits(crn)
}

func measure(name string, records []eagle.CourseRecord) (float64, string) {
	switch name {
	case "realistic_demand":
		pct, n := percentage(records, func(r eagle.CourseRecord) bool { return r.HasAvailability })
		return pct, fmt.Sprintf("%d of %d records show seats > waitlist (%.1f%%)", n, len(records), pct)
	case "waitlist_diversity":
		pct, n := percentage(records, func(r eagle.CourseRecord) bool { return r.WaitlistCount > 0 })
		return pct, fmt.Sprintf("%d of %d records carry a non-zero waitlist (%.1f%%)", n, len(records), pct)
	case "campus_completeness":
		pct, n := percentage(records, func(r eagle.CourseRecord) bool { return r.Campus != eagle.TBA })
		return pct, fmt.Sprintf("%d of %d records name a campus (%.1f%%)", n, len(records), pct)
	case "instructor_completeness":
		pct, n := percentage(records, func(r eagle.CourseRecord) bool { return r.Instructor != eagle.TBA })
		return pct, fmt.Sprintf("%d of %d records name an instructor (%.1f%%)", n, len(records), pct)
	case "location_completeness":
		pct, n := percentage(records, func(r eagle.CourseRecord) bool { return r.Location != eagle.TBA })
		return pct, fmt.Sprintf("%d of %d records name a location (%.1f%%)", n, len(records), pct)
	case "data_consistency":
		pct, n := percentage(records, func(r eagle.CourseRecord) bool { return validCRN(r.CRN) })
		return pct, fmt.Sprintf("%d of %d records have a 5-digit CRN (%.1f%%)", n, len(records), pct)
	}
	// an unknown criterion name in a policy file is a configuration error
	panic("quality: unknown criterion " + name)
}

func recommend(c Criterion, pct float64) string {
	switch c.Name {
	case "realistic_demand":
		return fmt.Sprintf(
			"unrealistic availability: %.1f%% of records show seats > waitlist (expected at most %.0f%%); the extraction is likely reading the wrong seat/waitlist columns or the wrong term",
			pct, c.Threshold,
		)
	case "waitlist_diversity":
		return fmt.Sprintf(
			"waitlist extraction looks wrong: only %.1f%% of records have a waitlist above zero (need %.0f%%)",
			pct, c.Threshold,
		)
	case "campus_completeness":
		return fmt.Sprintf(
			"campus extraction incomplete: %.1f%% of records carry a real campus name (need %.0f%%)",
			pct, c.Threshold,
		)
	case "instructor_completeness":
		return fmt.Sprintf(
			"instructor extraction failing: %.1f%% of records name an instructor (need %.0f%%); check whether instructor data sits in a different column",
			pct, c.Threshold,
		)
	case "location_completeness":
		return fmt.Sprintf(
			"location extraction incomplete: %.1f%% of records name a location (need %.0f%%)",
			pct, c.Threshold,
		)
	case "data_consistency":
		return fmt.Sprintf(
			"inconsistent CRNs: only %.1f%% are exactly 5 digits (need %.0f%%)",
			pct, c.Threshold,
		)
	}
	return fmt.Sprintf("%s below threshold: %.1f%% (need %.0f%%)", c.Name, pct, c.Threshold)
}

// sampleIssues quotes a bounded handful of records illustrating the two
// failure patterns seen most in practice: waitlists parsed as zero and
// campuses left as TBA.
func (p Policy) sampleIssues(records []eagle.CourseRecord) []SampleIssue {
	var issues []SampleIssue

	zeroWaitlist := filterRecords(records, func(r eagle.CourseRecord) bool { return r.WaitlistCount == 0 })
	if len(zeroWaitlist) > 0 {
		issues = append(issues, SampleIssue{
			Type:   "zero_waitlist",
			Count:  len(zeroWaitlist),
			Sample: capRecords(zeroWaitlist, p.SampleCap),
		})
	}

	tbaCampus := filterRecords(records, func(r eagle.CourseRecord) bool { return r.Campus == eagle.TBA })
	if len(tbaCampus) > 0 {
		issues = append(issues, SampleIssue{
			Type:   "tba_campus",
			Count:  len(tbaCampus),
			Sample: capRecords(tbaCampus, p.SampleCap),
		})
	}

	return issues
}

func filterRecords(records []eagle.CourseRecord, match func(eagle.CourseRecord) bool) []eagle.CourseRecord {
	var out []eagle.CourseRecord
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func capRecords(records []eagle.CourseRecord, n int) []eagle.CourseRecord {
	if len(records) <= n {
		return records
	}
	return records[:n]
}
