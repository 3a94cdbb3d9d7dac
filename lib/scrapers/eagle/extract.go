package eagle

import (
	"regexp"
	"strings"

	"coursewatch-backend/lib/textutil"
)

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func stringField(cells []string, idx int) string {
	v := cellAt(cells, idx)
	if v == "" {
		return TBA
	}
	return v
}

// ExtractTableRows builds records from the rows of one table, starting at
// `start` (the row after the inferred header, or 0 when headers are being
// ignored outright). A row participates only when its course cell carries
// the requested subject prefix; rows with fewer than 3 cells cannot
// plausibly be a section and are dropped silently. Malformed cell contents
// degrade to defaults, never to an error.
func ExtractTableRows(rows [][]string, columns ColumnMap, start int, subject string) []CourseRecord {
	var records []CourseRecord
	for i := start; i < len(rows); i++ {
		cells := rows[i]
		if len(cells) < 3 {
			continue
		}
		if !strings.HasPrefix(cellAt(cells, columns.Index("course")), subject) {
			continue
		}

		records = append(records, finishRecord(CourseRecord{
			Course:         stringField(cells, columns.Index("course")),
			CRN:            stringField(cells, columns.Index("crn")),
			Credits:        stringField(cells, columns.Index("credits")),
			Days:           stringField(cells, columns.Index("days")),
			Time:           stringField(cells, columns.Index("time")),
			DateRange:      stringField(cells, columns.Index("dateRange")),
			SeatsAvailable: textutil.LeadingInt(cellAt(cells, columns.Index("seatsAvailable"))),
			WaitlistCount:  textutil.LeadingInt(cellAt(cells, columns.Index("waitlistCount"))),
			Campus:         stringField(cells, columns.Index("campus")),
			Location:       stringField(cells, columns.Index("location")),
			Instructor:     stringField(cells, columns.Index("instructor")),
			ScheduleType:   stringField(cells, columns.Index("scheduleType")),
		}))
	}
	return records
}

var dateToken = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}`)

// how far past a course line the forward scan is allowed to wander
const lineScanWindow = 10

func courseLinePattern(subject string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(subject) + `\d+\s+\d{5}(\s|$)`)
}

// ExtractLines is the no-table fallback: a course line is a subject code
// plus course number immediately followed by a 5-digit CRN. Seats and
// waitlist arrive on standalone integer lines after it, and a campus name
// line closes out the section. This is inherently heuristic; when several
// sections share nearby lines the attribution of stray integers is
// ambiguous, which is the known precision ceiling of this mode.
func ExtractLines(lines []string, subject string) []CourseRecord {
	pattern := courseLinePattern(subject)

	var records []CourseRecord
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if !pattern.MatchString(line) {
			continue
		}

		parts := strings.Fields(line)
		r := CourseRecord{
			Course:       parts[0],
			CRN:          parts[1],
			Credits:      TBA,
			Days:         TBA,
			Time:         TBA,
			DateRange:    TBA,
			Campus:       TBA,
			Location:     TBA,
			Instructor:   TBA,
			ScheduleType: TBA,
		}
		if len(parts) > 2 {
			r.Credits = parts[2]
		}
		if len(parts) > 3 {
			r.Days = parts[3]
		}

		// the time is everything between the days column and the first
		// date token, e.g. "8:00 AM - 9:15 AM"
		j := 4
		var timeParts []string
		for j < len(parts) && !dateToken.MatchString(parts[j]) {
			timeParts = append(timeParts, parts[j])
			j++
		}
		if len(timeParts) > 0 {
			r.Time = strings.Join(timeParts, " ")
		}
		if j < len(parts) {
			r.DateRange = parts[j]
			if j+2 < len(parts) && parts[j+1] == "-" {
				r.DateRange += " - " + parts[j+2]
			}
		}

		r = scanSectionDetails(lines, i, r)
		records = append(records, finishRecord(r))
	}
	return records
}

// scanSectionDetails walks forward from a course line collecting the
// section's counts and campus. Standalone integer lines are consumed in
// order as seats then waitlist; a campus line terminates the scan.
func scanSectionDetails(lines []string, courseIdx int, r CourseRecord) CourseRecord {
	intsSeen := 0
	stop := courseIdx + 1 + lineScanWindow
	if stop > len(lines) {
		stop = len(lines)
	}

	for k := courseIdx + 1; k < stop; k++ {
		line := strings.TrimSpace(lines[k])
		if line == "" {
			continue
		}

		if textutil.IsDigits(line) && intsSeen < 2 {
			n := textutil.LeadingInt(line)
			if intsSeen == 0 {
				r.SeatsAvailable = n
			} else {
				r.WaitlistCount = n
			}
			intsSeen++
			continue
		}

		campus, ok := CanonicalCampus(line)
		if !ok {
			continue
		}
		r.Campus = campus

		if intsSeen == 0 {
			// no standalone count lines before the campus line; some
			// layouts inline "2 5 Rockville TA 210" instead
			fields := strings.Fields(line)
			for m := 0; m+1 < len(fields); m++ {
				if textutil.IsDigits(fields[m]) && textutil.IsDigits(fields[m+1]) {
					r.SeatsAvailable = textutil.LeadingInt(fields[m])
					r.WaitlistCount = textutil.LeadingInt(fields[m+1])
					break
				}
			}
		}

		if strings.Contains(lines[k], "\t") {
			segments := strings.Split(lines[k], "\t")
			for s, seg := range segments {
				if _, hit := CanonicalCampus(seg); !hit {
					continue
				}
				if s+1 < len(segments) && strings.TrimSpace(segments[s+1]) != "" {
					r.Location = strings.TrimSpace(segments[s+1])
				}
				if s+2 < len(segments) && strings.TrimSpace(segments[s+2]) != "" {
					r.Instructor = strings.TrimSpace(segments[s+2])
				}
				break
			}
		}
		break
	}
	return r
}
