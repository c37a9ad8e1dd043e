package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"chestnut/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive ask loop",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(func(a *app) error {
			m := tui.New(a.pipeline, a.cfg.Ask.TopK)
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
