package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about your notes",
	Long: `Rank summarized notes by relevance to the question, then ask the
completion model to answer from the best matches.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.Join(args, " ")
		withApp(func(a *app) error {
			topK := askTopK
			if topK == 0 {
				topK = a.cfg.Ask.TopK
			}
			ans, err := a.pipeline.Ask(cmd.Context(), question, topK)
			if err != nil {
				return err
			}
			if ans.NoNotes {
				fmt.Println("No summarized notes to search. Import and summarize first.")
				return nil
			}
			fmt.Printf("Answer:\n%s\n\nSources:\n", ans.Text)
			for _, r := range ans.Selected {
				fmt.Printf("  [note %d] %s (score %d)\n", r.Note.ID, r.Note.Name, r.Score)
			}
			return nil
		})
	},
}

func init() {
	askCmd.Flags().IntVar(&askTopK, "top", 0, "How many notes to feed the model (default from config)")
	rootCmd.AddCommand(askCmd)
}
