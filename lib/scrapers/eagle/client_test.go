package eagle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchSubjectOption(t *testing.T) {
	options := []string{
		"ACCT-Accounting",
		"MATH-Mathematics",
		"MGMT-Management",
	}

	matched, ok := MatchSubjectOption("MATH", options)
	require.True(t, ok)
	require.Equal(t, "MATH-Mathematics", matched)

	// case-insensitive prefix tier
	matched, ok = MatchSubjectOption("math", options)
	require.True(t, ok)
	require.Equal(t, "MATH-Mathematics", matched)

	// containment tier: no "SUBJ-" shape in the dropdown labels
	matched, ok = MatchSubjectOption("MATH", []string{"Mathematics (MATH)"})
	require.True(t, ok)
	require.Equal(t, "Mathematics (MATH)", matched)

	// fuzzy tier catches a near-miss code
	matched, ok = MatchSubjectOption("MATG", []string{"MATH"})
	require.True(t, ok)
	require.Equal(t, "MATH", matched)

	// nothing remotely similar
	_, ok = MatchSubjectOption("ZZZZ", options)
	require.False(t, ok)
}

func TestResolveSubject(t *testing.T) {
	options := []string{"ACCT-Accounting", "MATH-Mathematics"}

	code, err := ResolveSubject("math", options)
	require.NoError(t, err)
	require.Equal(t, "MATH", code)

	// fuzzy-matched label without a dash is itself the code
	code, err = ResolveSubject("MATG", []string{"MATH"})
	require.NoError(t, err)
	require.Equal(t, "MATH", code)

	// label with no extractable code falls back to the caller's spelling
	code, err = ResolveSubject("MATH", []string{"Mathematics (MATH)"})
	require.NoError(t, err)
	require.Equal(t, "MATH", code)

	_, err = ResolveSubject("ZZZZ", options)
	require.Error(t, err)
}

func TestClientFetchSchedule(t *testing.T) {
	var submitted url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bwckgens.p_proc_term_date":
			fmt.Fprint(w, `<html><body><select name="sel_subj">
<option value="COMM">COMM-Communication Studies</option>
<option value="MATH">MATH-Mathematics</option>
</select></body></html>`)
		case "/bwckschd.p_get_crse_unsec":
			r.ParseForm()
			submitted = r.PostForm
			fmt.Fprint(w, scheduleHTML)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	content, err := client.FetchSchedule(context.Background(), "202530", "math")
	require.NoError(t, err)

	// the form carries the resolved dropdown code, not the raw input
	require.Contains(t, submitted["sel_subj"], "MATH")
	require.NotContains(t, submitted["sel_subj"], "math")
	require.NotEmpty(t, content.Tables)

	_, err = client.FetchSchedule(context.Background(), "202530", "ZZZZ")
	require.Error(t, err)
}
