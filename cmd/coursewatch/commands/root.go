package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"coursewatch-backend/lib/coursestore"
	"coursewatch-backend/lib/quality"
	"coursewatch-backend/lib/scrapers/eagle"
	"coursewatch-backend/services/sections"

	"github.com/spf13/cobra"

	_ "modernc.org/sqlite"
)

var (
	baseURL    string
	term       string
	dbPath     string
	policyFile string
)

var rootCmd = &cobra.Command{
	Use:   "coursewatch",
	Short: "coursewatch inspects course section seats and waitlists scraped from the college's Eagle schedule pages.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&baseURL, "base-url",
		"https://mcssb.glb.montgomerycollege.edu/eagle",
		"base url of the Eagle Banner install",
	)
	rootCmd.PersistentFlags().StringVar(&term, "term", "202530", "term code, e.g. 202530 for fall 2025")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "coursewatch.db", "path of the sqlite snapshot cache")
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "quality.json5", "quality policy override file")
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() (*eagle.Client, error) {
	return eagle.NewClient(eagle.ClientOptions{BaseUrl: baseURL})
}

func newService(provider sections.ContentProvider) (sections.Service, error) {
	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return sections.Service{}, err
	}
	store, err := coursestore.NewStore(database)
	if err != nil {
		return sections.Service{}, err
	}
	policy, err := quality.LoadPolicy(policyFile)
	if err != nil {
		return sections.Service{}, err
	}
	return sections.NewService(provider, store, policy), nil
}

// fileProvider serves a page snapshot from disk instead of the live site,
// for replaying saved schedule pages offline.
type fileProvider struct {
	content eagle.Content
}

func (p fileProvider) FetchSchedule(ctx context.Context, term, subject string) (eagle.Content, error) {
	return p.content, nil
}

func providerFromFlags(file string) (sections.ContentProvider, error) {
	if file == "" {
		return newClient()
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := eagle.ContentFromHTML(f)
	if err != nil {
		return nil, err
	}
	return fileProvider{content: content}, nil
}
