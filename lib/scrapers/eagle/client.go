package eagle

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"coursewatch-backend/lib/htmlutil"
	"coursewatch-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"github.com/go-resty/resty/v2"
)

// Client fetches class schedule pages from the college's Banner
// ("Eagle") install. It only performs plain form submissions; anything
// that would need a real browser session lives outside this package.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/eagle/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// FetchSubjects returns the subject dropdown labels for a term, e.g.
// "COMM-Communication Studies".
func (c *Client) FetchSubjects(ctx context.Context, term string) ([]string, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"p_calling_proc": "bwckschd.p_disp_dyn_sched",
			"p_term":         term,
		}).
		Post("/bwckgens.p_proc_term_date")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}

	var subjects []string
	doc.Find("select[name=sel_subj] option").Each(func(_ int, opt *goquery.Selection) {
		text := htmlutil.CleanText(opt.Text())
		if text != "" {
			subjects = append(subjects, text)
		}
	})
	if len(subjects) == 0 {
		return nil, fmt.Errorf("no subject options found for term %q", term)
	}
	return subjects, nil
}

// FetchSchedule resolves the subject against the term's dropdown options,
// submits the class search form, and returns whatever shape of content the
// result page carries.
func (c *Client) FetchSchedule(ctx context.Context, term, subject string) (Content, error) {
	slog.DebugContext(ctx, "fetch class schedule", "term", term, "subject", subject)

	options, err := c.FetchSubjects(ctx, term)
	if err != nil {
		return Content{}, err
	}
	code, err := ResolveSubject(subject, options)
	if err != nil {
		return Content{}, err
	}

	form := url.Values{
		"term_in":       {term},
		"sel_subj":      {"dummy", code},
		"sel_day":       {"dummy"},
		"sel_schd":      {"dummy"},
		"sel_insm":      {"dummy"},
		"sel_camp":      {"dummy"},
		"sel_levl":      {"dummy"},
		"sel_sess":      {"dummy"},
		"sel_instr":     {"dummy"},
		"sel_ptrm":      {"dummy"},
		"sel_attr":      {"dummy"},
		"sel_crse":      {""},
		"sel_title":     {""},
		"sel_from_cred": {""},
		"sel_to_cred":   {""},
		"begin_hh":      {"0"},
		"begin_mi":      {"0"},
		"begin_ap":      {"a"},
		"end_hh":        {"0"},
		"end_mi":        {"0"},
		"end_ap":        {"a"},
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post("/bwckschd.p_get_crse_unsec")
	if err != nil {
		return Content{}, err
	}

	return ContentFromHTML(bytes.NewBuffer(res.Body()))
}

// how similar a dropdown label has to be before the fuzzy tier accepts it
const subjectSimilarityFloor = 0.85

// ResolveSubject turns a user-entered subject into the code the search
// form expects, by matching it against the term's dropdown labels.
func ResolveSubject(subject string, options []string) (string, error) {
	matched, ok := MatchSubjectOption(subject, options)
	if !ok {
		return "", fmt.Errorf("unknown subject %q", subject)
	}
	code, _, found := strings.Cut(matched, "-")
	code = strings.TrimSpace(code)
	if !found && strings.ContainsAny(code, " \t") {
		// label carries no SUBJ- code; trust the caller's spelling
		code = subject
	}
	return strings.ToUpper(code), nil
}

// MatchSubjectOption picks the dropdown label for a subject code. Exact
// "SUBJ-" prefixes win, then containment, then the most similar label when
// it clears the similarity floor.
func MatchSubjectOption(subject string, options []string) (string, bool) {
	subject = strings.ToUpper(subject)

	for _, opt := range options {
		if strings.HasPrefix(strings.ToUpper(opt), subject+"-") {
			return opt, true
		}
	}
	for _, opt := range options {
		if strings.Contains(strings.ToUpper(opt), subject) {
			return opt, true
		}
	}

	var mostSimilar string
	var similarity float64
	for _, opt := range options {
		sim := matchr.JaroWinkler(subject, strings.ToUpper(opt), false)
		if sim > similarity {
			similarity = sim
			mostSimilar = opt
		}
	}
	if similarity >= subjectSimilarityFloor {
		return mostSimilar, true
	}
	return "", false
}
