package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const sampleTable = `
<html><body>
<table>
<tr><th>Course</th><th>CRN</th><th>Seats  Avail</th></tr>
<tr><td>COMM108</td><td>20388</td><td> 2 </td></tr>
<tr><td colspan="3">Note</td></tr>
</table>
</body></html>`

func TestTableRows(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sampleTable))
	require.NoError(t, err)

	rows := TableRows(doc.Find("table"))
	diff := cmp.Diff([][]string{
		{"Course", "CRN", "Seats Avail"},
		{"COMM108", "20388", "2"},
		{"Note"},
	}, rows)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Seats Avail", CleanText("  Seats \n  Avail \t"))
	require.Equal(t, "", CleanText(" \n\t "))
}
