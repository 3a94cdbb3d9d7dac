package quality

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"coursewatch-backend/lib/scrapers/eagle"

	"github.com/stretchr/testify/require"
)

func record(crn string, seats, waitlist int, campus, instructor, location string) eagle.CourseRecord {
	return eagle.CourseRecord{
		Course:          "MATH182",
		CRN:             crn,
		Credits:         "4",
		Days:            "MW",
		Time:            "10:00 am-11:15 am",
		DateRange:       "09/02/25 - 12/14/25",
		SeatsAvailable:  seats,
		WaitlistCount:   waitlist,
		Campus:          campus,
		Instructor:      instructor,
		Location:        location,
		ScheduleType:    "Lecture",
		HasAvailability: seats > waitlist,
	}
}

// healthyRecords builds a dataset matching what a real popular subject
// looks like: mostly waitlisted, campuses nearly always present.
func healthyRecords() []eagle.CourseRecord {
	records := make([]eagle.CourseRecord, 0, 20)
	for i := 0; i < 20; i++ {
		crn := fmt.Sprintf("2%04d", i)
		campus := "Rockville"
		instructor := "J. Rivera"
		location := "SC 451"
		if i == 19 {
			campus = eagle.TBA
		}
		if i >= 18 {
			instructor = eagle.TBA
		}
		if i >= 16 {
			location = eagle.TBA
		}
		switch {
		case i < 2:
			records = append(records, record(crn, 5, 0, campus, instructor, location))
		case i < 16:
			records = append(records, record(crn, 0, 10, campus, instructor, location))
		default:
			records = append(records, record(crn, 0, 0, campus, instructor, location))
		}
	}
	return records
}

func TestValidateHealthy(t *testing.T) {
	report := Validate(healthyRecords())

	require.Equal(t, 20, report.TotalRecords)
	require.InDelta(t, 89.82, report.OverallScore, 0.01)
	require.True(t, report.Passed)
	require.Equal(t, []string{"all quality criteria passed"}, report.Recommendations)

	require.Len(t, report.Criteria, 6)
	for _, c := range report.Criteria {
		require.True(t, c.Passed, "criterion %s should pass", c.Name)
	}
	require.Equal(t, "realistic_demand", report.Criteria[0].Name)
	require.InDelta(t, 100, report.Criteria[0].Score, 0.01)
	require.Equal(t, "waitlist_diversity", report.Criteria[1].Name)
	require.InDelta(t, 70, report.Criteria[1].Score, 0.01)
}

func TestValidateSuspicious(t *testing.T) {
	// every section wide open with an empty waitlist: the classic
	// symptom of the parser reading the wrong columns
	var records []eagle.CourseRecord
	for i := 0; i < 10; i++ {
		crn := fmt.Sprintf("3%04d", i)
		records = append(records, record(crn, 10, 0, "Rockville", "J. Rivera", "SC 451"))
	}

	report := Validate(records)

	require.False(t, report.Passed)
	require.InDelta(t, 42.86, report.OverallScore, 0.01)
	require.InDelta(t, 0, report.Criteria[0].Score, 0.01)
	require.Contains(t, report.Recommendations[0], "unrealistic availability")

	require.Len(t, report.SampleIssues, 1)
	require.Equal(t, "zero_waitlist", report.SampleIssues[0].Type)
	require.Equal(t, 10, report.SampleIssues[0].Count)
	require.Len(t, report.SampleIssues[0].Sample, 3)
}

func TestValidateInvertedDecay(t *testing.T) {
	// 30% availability sits 15 points past the threshold: the score
	// decays instead of dropping straight to zero
	var records []eagle.CourseRecord
	for i := 0; i < 10; i++ {
		crn := fmt.Sprintf("4%04d", i)
		if i < 3 {
			records = append(records, record(crn, 8, 0, "Rockville", "J. Rivera", "SC 451"))
		} else {
			records = append(records, record(crn, 0, 6, "Rockville", "J. Rivera", "SC 451"))
		}
	}

	report := Validate(records)

	require.InDelta(t, 50.05, report.Criteria[0].Score, 0.01)
	require.False(t, report.Criteria[0].Passed)
}

func TestValidateEmpty(t *testing.T) {
	report := Validate(nil)

	require.Equal(t, 0, report.TotalRecords)
	require.Zero(t, report.OverallScore)
	require.False(t, report.Passed)
	require.Equal(t, []string{"no records to validate"}, report.Recommendations)
	require.Len(t, report.Criteria, 6)
	require.Empty(t, report.SampleIssues)
}

func TestLoadPolicyPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quality.json5")
	err := os.WriteFile(path, []byte(`{
		// loosen one criterion, keep everything else stock
		criteria: [{name: "waitlist_diversity", threshold: 40}],
		passing_score: 70,
	}`), 0644)
	require.NoError(t, err)

	policy, err := LoadPolicy(path)
	require.NoError(t, err)

	require.Len(t, policy.Criteria, 6)
	require.Equal(t, float64(70), policy.PassingScore)
	require.Equal(t, float64(80), policy.InvertPassingScore)
	require.Equal(t, 3, policy.SampleCap)

	defaults := DefaultPolicy()
	for i, c := range policy.Criteria {
		require.Equal(t, defaults.Criteria[i].Name, c.Name)
		if c.Name == "waitlist_diversity" {
			require.Equal(t, float64(40), c.Threshold)
			require.Equal(t, float64(30), c.Weight)
			continue
		}
		require.Equal(t, defaults.Criteria[i], c)
	}
}

func TestLoadPolicyMissingFile(t *testing.T) {
	policy, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.json5"))
	require.NoError(t, err)
	require.Equal(t, DefaultPolicy(), policy)
}

func TestValidateDeterministic(t *testing.T) {
	records := healthyRecords()
	first := Validate(records)
	second := Validate(records)
	require.Equal(t, first, second)
}

func TestValidateBadCRNs(t *testing.T) {
	records := healthyRecords()
	for i := 0; i < 4; i++ {
		records[i].CRN = "MATH"
	}

	report := Validate(records)

	var consistency CriterionScore
	for _, c := range report.Criteria {
		if c.Name == "data_consistency" {
			consistency = c
		}
	}
	require.InDelta(t, 80, consistency.Score, 0.01)
	require.False(t, consistency.Passed)
	require.Contains(t, report.Recommendations[0], "inconsistent CRNs")
}
