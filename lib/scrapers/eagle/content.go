package eagle

import (
	"io"
	"strings"

	"coursewatch-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Content is a snapshot of one schedule page in the two shapes the site is
// known to produce: a set of tables, or a single block of line-oriented
// text. Callers never have to declare which shape they got; strategies pick
// over whichever parts are populated.
type Content struct {
	Tables [][][]string
	Text   string
}

// ContentFromHTML parses a raw schedule page. Every <table> becomes a cell
// matrix and the body text is kept line-for-line as the text fallback.
func ContentFromHTML(r io.Reader) (Content, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Content{}, err
	}

	var content Content
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := htmlutil.TableRows(table)
		if len(rows) > 0 {
			content.Tables = append(content.Tables, rows)
		}
	})

	var text string
	if body := doc.Find("body"); len(body.Nodes) > 0 {
		text = htmlutil.GetText(body.Nodes[0])
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	content.Text = strings.Join(lines, "\n")

	return content, nil
}

func ContentFromText(text string) Content {
	return Content{Text: text}
}

func ContentFromTables(tables ...[][]string) Content {
	return Content{Tables: tables}
}

// lines returns the text content split for line-mode extraction, falling
// back to tab-joined table rows when the page only yielded tables.
func (c Content) lines() []string {
	if c.Text != "" {
		return strings.Split(c.Text, "\n")
	}
	var lines []string
	for _, table := range c.Tables {
		for _, row := range table {
			lines = append(lines, strings.Join(row, "\t"))
		}
	}
	return lines
}
