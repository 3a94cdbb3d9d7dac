package eagle

import (
	"regexp"
	"strings"

	"coursewatch-backend/lib/textutil"
)

// Strategy is one interchangeable way of locating section records in page
// content. Implementations are pure: the same content and subject always
// yield the same records, and the input is never mutated.
type Strategy interface {
	Name() string
	Extract(content Content, subject string) []CourseRecord
}

// Strategies returns the candidate set in decreasing order of expected
// precision. The comparison harness runs all of them; direct extraction
// paths try them in this order until one produces records.
func Strategies() []Strategy {
	return []Strategy{
		SmartHeaderStrategy{},
		PositionalStrategy{},
		LineScanStrategy{},
		ProximityStrategy{},
	}
}

// SmartHeaderStrategy infers each table's header row and column layout
// before extracting.
type SmartHeaderStrategy struct{}

func (SmartHeaderStrategy) Name() string { return "smart_header" }

func (SmartHeaderStrategy) Extract(content Content, subject string) []CourseRecord {
	var records []CourseRecord
	for _, rows := range content.Tables {
		headerIdx, confident := FindHeaderRow(rows)
		columns := ColumnMap{}
		if confident {
			columns = MapColumns(rows[headerIdx])
		}
		records = append(records, ExtractTableRows(rows, columns, headerIdx+1, subject)...)
	}
	return records
}

// PositionalStrategy ignores headers entirely and reads every table with
// the classic fixed column layout.
type PositionalStrategy struct{}

func (PositionalStrategy) Name() string { return "positional" }

func (PositionalStrategy) Extract(content Content, subject string) []CourseRecord {
	var records []CourseRecord
	for _, rows := range content.Tables {
		records = append(records, ExtractTableRows(rows, ColumnMap{}, 0, subject)...)
	}
	return records
}

// LineScanStrategy runs the line-oriented fallback over the page text (or
// over tab-joined table rows when only tables were captured).
type LineScanStrategy struct{}

func (LineScanStrategy) Name() string { return "line_scan" }

func (LineScanStrategy) Extract(content Content, subject string) []CourseRecord {
	return ExtractLines(content.lines(), subject)
}

// ProximityStrategy is the last resort: it looks for the subject code
// anywhere in the content and infers seats/waitlist from the nearest small
// numeric tokens and campus from the nearest campus-name token, with no
// regard for table structure. Lowest precision of the set.
type ProximityStrategy struct{}

func (ProximityStrategy) Name() string { return "text_proximity" }

// how far (in lines) the proximity search reaches around a course mention
const proximityWindow = 5

var crnToken = regexp.MustCompile(`\b\d{5}\b`)
var smallIntToken = regexp.MustCompile(`\b\d{1,4}\b`)

func (ProximityStrategy) Extract(content Content, subject string) []CourseRecord {
	lines := content.lines()
	courseToken := regexp.MustCompile(`\b` + regexp.QuoteMeta(subject) + `\d+\b`)

	seen := map[string]bool{}
	var records []CourseRecord
	for i, line := range lines {
		course := courseToken.FindString(line)
		if course == "" {
			continue
		}

		crn := nearestMatch(lines, i, func(l string) string {
			rest := l
			if idx := strings.Index(l, course); idx >= 0 {
				rest = l[idx+len(course):]
			}
			return crnToken.FindString(rest)
		})
		if crn == "" || seen[course+crn] {
			continue
		}
		seen[course+crn] = true

		r := CourseRecord{
			Course:       course,
			CRN:          crn,
			Credits:      TBA,
			Days:         TBA,
			Time:         TBA,
			DateRange:    TBA,
			Campus:       TBA,
			Location:     TBA,
			Instructor:   TBA,
			ScheduleType: TBA,
		}

		counts := nearestCounts(lines, i)
		if len(counts) > 0 {
			r.SeatsAvailable = counts[0]
		}
		if len(counts) > 1 {
			r.WaitlistCount = counts[1]
		}

		campus := nearestMatch(lines, i, func(l string) string {
			c, ok := CanonicalCampus(l)
			if !ok {
				return ""
			}
			return c
		})
		if campus != "" {
			r.Campus = campus
		}

		records = append(records, finishRecord(r))
	}
	return records
}

// neighborhood yields line indices outward from the origin:
// origin, origin+1, origin-1, origin+2, ...
func neighborhood(origin, total int) []int {
	out := []int{origin}
	for d := 1; d <= proximityWindow; d++ {
		if origin+d < total {
			out = append(out, origin+d)
		}
		if origin-d >= 0 {
			out = append(out, origin-d)
		}
	}
	return out
}

// nearestMatch probes lines outward from the origin and returns the first
// non-empty result of the probe.
func nearestMatch(lines []string, origin int, probe func(string) string) string {
	for _, k := range neighborhood(origin, len(lines)) {
		if v := probe(lines[k]); v != "" {
			return v
		}
	}
	return ""
}

// nearestCounts collects up to two small integer tokens near the course
// mention, in proximity order.
func nearestCounts(lines []string, origin int) []int {
	var counts []int
	for _, k := range neighborhood(origin, len(lines)) {
		for _, token := range smallIntToken.FindAllString(lines[k], -1) {
			counts = append(counts, textutil.LeadingInt(token))
			if len(counts) == 2 {
				return counts
			}
		}
	}
	return counts
}
