package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listJSON bool

var listSummariesCmd = &cobra.Command{
	Use:   "list-summaries",
	Short: "List every note that has a usable summary",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(func(a *app) error {
			notes, err := a.pipeline.ListSummaries(cmd.Context())
			if err != nil {
				return err
			}
			if listJSON {
				type row struct {
					ID      int64  `json:"id"`
					Name    string `json:"name"`
					Summary string `json:"summary"`
				}
				rows := make([]row, 0, len(notes))
				for _, n := range notes {
					rows = append(rows, row{ID: n.ID, Name: n.Name, Summary: *n.Summary})
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			if len(notes) == 0 {
				fmt.Println("No summarized notes yet.")
				return nil
			}
			for _, n := range notes {
				fmt.Printf("[%d] %s\n    %s\n", n.ID, n.Name, *n.Summary)
			}
			return nil
		})
	},
}

func init() {
	listSummariesCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listSummariesCmd)
}
