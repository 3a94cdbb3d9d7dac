package eagle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentFromHTML(t *testing.T) {
	page := `<html><body>
<p>Fall 2025 Class Schedule</p>
<table><tr><th>Course</th><th>CRN</th></tr><tr><td>COMM108</td><td>20388</td></tr></table>
</body></html>`

	content, err := ContentFromHTML(strings.NewReader(page))
	require.NoError(t, err)

	require.Len(t, content.Tables, 1)
	require.Equal(t, [][]string{
		{"Course", "CRN"},
		{"COMM108", "20388"},
	}, content.Tables[0])
	require.Contains(t, content.Text, "Fall 2025 Class Schedule")
}

func TestContentLinesFallsBackToTables(t *testing.T) {
	content := ContentFromTables([][]string{
		{"COMM108", "20388", "3"},
	})
	require.Equal(t, []string{"COMM108\t20388\t3"}, content.lines())

	require.Empty(t, Content{}.lines())
}
