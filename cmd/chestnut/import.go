package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"chestnut/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <folder-or-pattern>",
	Short: "Import text files as notes",
	Long: `Import every supported text file under a folder, or files matching a
glob pattern such as 'journal/**/*.md'. Re-importing appends new notes;
existing notes are never overwritten.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arg := args[0]
		withApp(func(a *app) error {
			var rep importer.Report
			var err error
			if info, statErr := os.Stat(arg); statErr == nil && info.IsDir() {
				rep, err = a.pipeline.ImportFolder(cmd.Context(), arg)
			} else if strings.ContainsAny(arg, "*?[{") {
				rep, err = a.pipeline.ImportGlob(cmd.Context(), arg)
			} else {
				return fmt.Errorf("%s is neither a folder nor a glob pattern", arg)
			}
			if err != nil {
				return err
			}
			if rep.Imported == 0 {
				fmt.Println("No supported text files found.")
				return nil
			}
			fmt.Printf("Imported %d files (%d skipped, %d failed).\n",
				rep.Imported, rep.Skipped, rep.Failed)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
