package commands

import (
	"fmt"
	"os"

	"coursewatch-backend/cmd/coursewatch/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(subjectsCmd)
}

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Prints the subjects offered in the term.",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newClient()
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		subjects, err := client.FetchSubjects(cmd.Context(), term)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Subject"})
		for _, s := range subjects {
			t.AppendRow(table.Row{s})
		}
		t.Render()
	},
}
