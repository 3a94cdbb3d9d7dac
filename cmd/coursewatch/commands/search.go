package commands

import (
	"fmt"
	"os"
	"strconv"

	"coursewatch-backend/cmd/coursewatch/utils"
	"coursewatch-backend/services/sections"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	searchSubject string
	searchCourse  string
	searchCampus  string
	searchFile    string
	searchNoCache bool
)

func init() {
	searchCmd.Flags().StringVar(&searchSubject, "subject", "", "subject code, e.g. COMM")
	searchCmd.Flags().StringVar(&searchCourse, "course", "", "filter on the course code, e.g. 182")
	searchCmd.Flags().StringVar(&searchCampus, "campus", "", "filter on the campus name")
	searchCmd.Flags().StringVar(&searchFile, "file", "", "read a saved schedule page instead of fetching")
	searchCmd.Flags().BoolVar(&searchNoCache, "no-cache", false, "skip the snapshot cache")
	searchCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Prints the sections of a subject with seat and waitlist counts.",
	Run: func(cmd *cobra.Command, args []string) {
		provider, err := providerFromFlags(searchFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		service, err := newService(provider)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		res, err := service.GetSections(cmd.Context(), sections.SearchRequest{
			Term:         term,
			Subject:      searchSubject,
			CourseFilter: searchCourse,
			CampusFilter: searchCampus,
			// replayed files bypass the cache in both directions: stale
			// live snapshots never shadow them and they never poison
			// later live searches
			SkipCache: searchNoCache || searchFile != "",
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{
			"Course", "CRN", "Seats", "Wait", "Open", "Days", "Time", "Campus", "Location", "Instructor",
		})
		for _, r := range res.Records {
			open := ""
			if r.HasAvailability {
				open = "yes"
			}
			t.AppendRow(table.Row{
				r.Course, r.CRN, r.SeatsAvailable, r.WaitlistCount, open,
				r.Days, r.Time, r.Campus, r.Location, r.Instructor,
			})
		}
		t.Render()

		summary := sections.Summarize(res.Records)
		fmt.Printf(
			"%d sections, %d with open seats, %d students waitlisted\n",
			summary.Total, summary.WithAvailability, summary.TotalWaitlisted,
		)
		if res.FromCache {
			fmt.Printf("from cache, scraped at %s\n", res.ScrapedAt.Format("3:04 PM"))
		} else if res.Strategy != "" {
			fmt.Printf("extracted with %s\n", res.Strategy)
		}

		fmt.Printf(
			"quality: %s (score %s)\n",
			passedWord(res.Report.Passed),
			strconv.FormatFloat(res.Report.OverallScore, 'f', 1, 64),
		)
		if !res.Report.Passed {
			for _, rec := range res.Report.Recommendations {
				fmt.Println("  - " + rec)
			}
		}
	},
}

func passedWord(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}
