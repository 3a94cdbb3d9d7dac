package commands

import (
	"fmt"
	"os"

	"coursewatch-backend/cmd/coursewatch/utils"
	"coursewatch-backend/lib/quality"
	"coursewatch-backend/lib/scrapers/eagle"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	compareSubject string
	compareFile    string
)

func init() {
	compareCmd.Flags().StringVar(&compareSubject, "subject", "", "subject code, e.g. COMM")
	compareCmd.Flags().StringVar(&compareFile, "file", "", "read a saved schedule page instead of fetching")
	compareCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Runs every extraction strategy against one page and ranks them by quality.",
	Run: func(cmd *cobra.Command, args []string) {
		provider, err := providerFromFlags(compareFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		content, err := provider.FetchSchedule(cmd.Context(), term, compareSubject)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		policy, err := quality.LoadPolicy(policyFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		results := policy.CompareStrategies(
			cmd.Context(), content, compareSubject, eagle.Strategies(),
		)

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Rank", "Strategy", "Score", "Records", "Passed", "Note"})
		for _, r := range results {
			t.AppendRow(table.Row{
				r.Rank,
				r.Strategy,
				fmt.Sprintf("%.1f", r.Report.OverallScore),
				len(r.Records),
				passedWord(r.Report.Passed),
				r.Err,
			})
		}
		t.Render()
	},
}
