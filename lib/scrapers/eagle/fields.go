package eagle

import (
	"strings"

	"coursewatch-backend/lib/textutil"
)

type Coercion int

const (
	CoerceString Coercion = iota
	// integer-valued with a default of zero on any parse failure
	CoerceInt
)

// FieldSpec describes one canonical field: the synonym tokens its header
// cell may carry (normalized form), how its cell text coerces, and the
// column used when header matching fails.
type FieldSpec struct {
	Name     string
	Synonyms []string
	Coerce   Coercion
	Fallback int
}

// fieldSpecs is the schema registry. Order matters twice over: header
// matching is first-match-wins, and the index doubles as the positional
// fallback layout of the site's classic table. New fields must be appended,
// never inserted, or already-correct mappings silently reclassify.
var fieldSpecs = []FieldSpec{
	{Name: "course", Synonyms: []string{"course", "subject", "class"}, Fallback: 0},
	{Name: "crn", Synonyms: []string{"crn", "reference", "number"}, Fallback: 1},
	{Name: "credits", Synonyms: []string{"credit", "hour", "units"}, Fallback: 2},
	{Name: "days", Synonyms: []string{"days", "day", "schedule"}, Fallback: 3},
	{Name: "time", Synonyms: []string{"time", "period", "hours"}, Fallback: 4},
	{Name: "dateRange", Synonyms: []string{"date", "dates", "start", "end", "duration"}, Fallback: 5},
	{Name: "seatsAvailable", Synonyms: []string{"seatsavail", "available", "open", "capacity", "spots"}, Coerce: CoerceInt, Fallback: 6},
	{Name: "waitlistCount", Synonyms: []string{"wait", "waitlist", "queue", "pending"}, Coerce: CoerceInt, Fallback: 7},
	{Name: "campus", Synonyms: []string{"campus", "site", "center"}, Fallback: 8},
	{Name: "location", Synonyms: []string{"location", "room", "building", "bldg", "facility"}, Fallback: 9},
	{Name: "instructor", Synonyms: []string{"instructor", "teacher", "faculty", "prof"}, Fallback: 10},
	{Name: "scheduleType", Synonyms: []string{"type", "format", "method", "mode"}, Fallback: 11},
}

var specByName = func() map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		if _, dup := m[spec.Name]; dup {
			panic("eagle: duplicate field spec " + spec.Name)
		}
		m[spec.Name] = spec
	}
	return m
}()

// FieldSpecs returns the registry in canonical order. The returned slice is
// shared and read-only.
func FieldSpecs() []FieldSpec {
	return fieldSpecs
}

// ColumnMap maps canonical field name to the column index inferred from one
// header row. Fields absent from the map resolve through their positional
// fallback via Index.
type ColumnMap map[string]int

func (m ColumnMap) Index(field string) int {
	if idx, ok := m[field]; ok {
		return idx
	}
	spec, ok := specByName[field]
	if !ok {
		// unregistered field names are programmer errors, not data errors
		panic("eagle: unregistered field " + field)
	}
	return spec.Fallback
}

func synonymMatch(normCell string, spec FieldSpec) bool {
	for _, syn := range spec.Synonyms {
		if strings.Contains(normCell, syn) || strings.Contains(syn, normCell) {
			return true
		}
	}
	return false
}

// MapColumns infers field positions from a header row. Each header cell is
// matched against the registry in order and claims the first field whose
// synonym set contains (or is contained by) the cell's normalized text; a
// field already claimed by an earlier cell is skipped, which guards against
// duplicate "Seats"/"Seats Avail" columns colliding.
func MapColumns(headerCells []string) ColumnMap {
	m := ColumnMap{}
	for col, cell := range headerCells {
		norm := textutil.NormalizeHeader(cell)
		if norm == "" {
			continue
		}
		for _, spec := range fieldSpecs {
			if _, taken := m[spec.Name]; taken {
				continue
			}
			if synonymMatch(norm, spec) {
				m[spec.Name] = col
				break
			}
		}
	}
	return m
}

// tokens that mark a row as a plausible header
var strongHeaderTokens = []string{"course", "crn", "wait", "seat"}

const headerSearchDepth = 3

// FindHeaderRow scans at most the first 3 rows for one carrying a strong
// header token. When none qualifies it reports (0, false): callers still
// treat row 0 as a last-resort header boundary, but map no columns from it.
func FindHeaderRow(rows [][]string) (int, bool) {
	depth := headerSearchDepth
	if len(rows) < depth {
		depth = len(rows)
	}
	for i := 0; i < depth; i++ {
		for _, cell := range rows[i] {
			norm := textutil.NormalizeHeader(cell)
			if norm == "" {
				continue
			}
			for _, token := range strongHeaderTokens {
				if strings.Contains(norm, token) {
					return i, true
				}
			}
		}
	}
	return 0, false
}
