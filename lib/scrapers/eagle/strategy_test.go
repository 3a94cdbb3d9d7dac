package eagle

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const scheduleHTML = `<html><body>
<table>
<tr><th>Course</th><th>CRN</th><th>Credits</th><th>Days</th><th>Time</th><th>Dates</th><th>Seats Avail</th><th>Waitlist</th><th>Campus</th><th>Location</th><th>Instructor</th><th>Type</th></tr>
<tr><td>MATH182</td><td>20456</td><td>4</td><td>TR</td><td>2:00 pm-3:15 pm</td><td>09/02/25 - 12/14/25</td><td>0</td><td>12</td><td>Rockville</td><td>SC 451</td><td>J. Rivera</td><td>Lecture</td></tr>
<tr><td>MATH182</td><td>20457</td><td>4</td><td>MW</td><td>10:00 am-11:15 am</td><td>09/02/25 - 12/14/25</td><td>2</td><td>0</td><td>Germantown</td><td>HT 400</td><td>A. Chen</td><td>Lecture</td></tr>
</table>
</body></html>`

func TestSmartHeaderStrategy(t *testing.T) {
	content, err := ContentFromHTML(strings.NewReader(scheduleHTML))
	require.NoError(t, err)

	records := SmartHeaderStrategy{}.Extract(content, "MATH")

	require.Len(t, records, 2)
	require.Equal(t, "20456", records[0].CRN)
	require.False(t, records[0].HasAvailability)
	require.Equal(t, "20457", records[1].CRN)
	require.True(t, records[1].HasAvailability)
	require.Equal(t, "Germantown", records[1].Campus)
}

func TestStrategiesHeaderlessTable(t *testing.T) {
	// no header at all: the smart strategy still skips row 0 as a
	// conventional header boundary, the positional one reads everything
	table := [][]string{
		{"MATH182", "20456", "4", "TR", "2:00 pm", "09/02/25", "0", "12", "Rockville", "SC 451", "J. Rivera", "Lecture"},
		{"MATH182", "20457", "4", "MW", "10:00 am", "09/02/25", "2", "0", "Germantown", "HT 400", "A. Chen", "Lecture"},
	}
	content := ContentFromTables(table)

	smart := SmartHeaderStrategy{}.Extract(content, "MATH")
	require.Len(t, smart, 1)
	require.Equal(t, "20457", smart[0].CRN)

	positional := PositionalStrategy{}.Extract(content, "MATH")
	require.Len(t, positional, 2)
}

func TestLineScanStrategyOverText(t *testing.T) {
	content := ContentFromText(strings.Join([]string{
		"MATH182 20456 4 TR 2:00 pm-3:15 pm 09/02/25 - 12/14/25",
		"0",
		"12",
		"Rockville\tSC 451\tJ. Rivera",
	}, "\n"))

	records := LineScanStrategy{}.Extract(content, "MATH")

	require.Len(t, records, 1)
	require.Equal(t, 12, records[0].WaitlistCount)
	require.Equal(t, "Rockville", records[0].Campus)
}

func TestProximityStrategy(t *testing.T) {
	content := ContentFromText(strings.Join([]string{
		"Fall 2025 Schedule",
		"MATH182 lecture, CRN 20456",
		"0 seats open, 12 on waitlist",
		"Rockville campus",
		"MATH182 lecture, CRN 20456", // repeated mention, not a second section
	}, "\n"))

	records := ProximityStrategy{}.Extract(content, "MATH")

	require.Len(t, records, 1)
	r := records[0]
	require.Equal(t, "MATH182", r.Course)
	require.Equal(t, "20456", r.CRN)
	require.Equal(t, 0, r.SeatsAvailable)
	require.Equal(t, 12, r.WaitlistCount)
	require.Equal(t, "Rockville", r.Campus)
	require.Equal(t, TBA, r.Instructor)
}

func TestStrategiesArePure(t *testing.T) {
	content, err := ContentFromHTML(strings.NewReader(scheduleHTML))
	require.NoError(t, err)

	for _, s := range Strategies() {
		first := s.Extract(content, "MATH")
		second := s.Extract(content, "MATH")
		diff := cmp.Diff(first, second)
		require.Empty(t, diff, "strategy %s", s.Name())
	}
}

func TestStrategyNames(t *testing.T) {
	var names []string
	for _, s := range Strategies() {
		names = append(names, s.Name())
	}
	require.Equal(t, []string{"smart_header", "positional", "line_scan", "text_proximity"}, names)
}
