package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// header cells come in as "Seats Avail", "Wait Count", "CRN", etc.
// comparisons happen on the lowercased alphanumeric skeleton only.
func NormalizeHeader(cell string) string {
	cell = strings.ToLower(cell)
	return nonAlnumRegex.ReplaceAllString(cell, "")
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// LeadingInt parses the leading run of digits of a trimmed string,
// returning 0 when there is none. Numeric cells on the schedule site are
// not guaranteed to be clean integers, so "12", "12 (est)" and "" all
// coerce without error.
func LeadingInt(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	ok := false
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		ok = true
	}
	if !ok {
		return 0
	}
	return n
}

func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
