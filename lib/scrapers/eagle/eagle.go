// Package eagle extracts course section records from the college's "Eagle"
// class schedule pages. The pages are not a stable contract: header wording
// and column order drift between terms, and some layouts degrade to plain
// text with positionally implied fields, so extraction is schema-inferring
// rather than schema-driven. See the quality package for how an extraction
// is judged.
package eagle

import "strings"

// CourseRecord is one scheduled section in canonical form. Records are
// immutable once produced; HasAvailability is always derived from the two
// counts at construction and never set independently.
type CourseRecord struct {
	Course          string `json:"course"`
	CRN             string `json:"crn"`
	Credits         string `json:"credits"`
	Days            string `json:"days"`
	Time            string `json:"time"`
	DateRange       string `json:"dateRange"`
	SeatsAvailable  int    `json:"seatsAvailable"`
	WaitlistCount   int    `json:"waitlistCount"`
	Campus          string `json:"campus"`
	Location        string `json:"location"`
	Instructor      string `json:"instructor"`
	ScheduleType    string `json:"scheduleType"`
	HasAvailability bool   `json:"hasAvailability"`
}

// TBA is the sentinel for string fields the page did not supply.
const TBA = "TBA"

func finishRecord(r CourseRecord) CourseRecord {
	r.HasAvailability = r.SeatsAvailable > r.WaitlistCount
	return r
}

var campusNames = []struct {
	token     string
	canonical string
}{
	{"Rockville", "Rockville"},
	{"Germantown", "Germantown"},
	{"Takoma", "Takoma Park/Silver Spring"},
	{"Distance", "Distance Learning"},
}

// CanonicalCampus reports whether the line mentions one of the known
// campuses and returns its canonical name.
func CanonicalCampus(line string) (string, bool) {
	for _, c := range campusNames {
		if strings.Contains(line, c.token) {
			return c.canonical, true
		}
	}
	return "", false
}
