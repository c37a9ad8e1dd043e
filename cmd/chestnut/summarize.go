package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"chestnut/internal/domain"
	"chestnut/internal/scheduler"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize every note that has no summary yet",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(func(a *app) error {
			rep, err := a.pipeline.SummarizeAll(cmd.Context())
			if err != nil {
				return err
			}
			printBatchReport(rep)
			return nil
		})
	},
}

var summarizeFirstNCmd = &cobra.Command{
	Use:   "summarize-first-n <count>",
	Short: "Summarize at most N unsummarized notes, oldest first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Error: count must be a positive integer, got %q\n", args[0])
			os.Exit(1)
		}
		withApp(func(a *app) error {
			rep, err := a.pipeline.SummarizeFirstN(cmd.Context(), n)
			if err != nil {
				return err
			}
			printBatchReport(rep)
			return nil
		})
	},
}

var summarizeNoteCmd = &cobra.Command{
	Use:   "summarize-note <id>",
	Short: "Summarize a single note, overwriting any prior summary",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid note id %q\n", args[0])
			os.Exit(1)
		}
		withApp(func(a *app) error {
			rep, err := a.pipeline.SummarizeNote(cmd.Context(), id)
			if errors.Is(err, domain.ErrNoteNotFound) {
				return fmt.Errorf("note %d not found", id)
			}
			if err != nil {
				return err
			}
			printBatchReport(rep)
			return nil
		})
	},
}

var resetFailedCmd = &cobra.Command{
	Use:   "reset-failed",
	Short: "Clear failed summaries so the next summarize pass retries them",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(func(a *app) error {
			n, err := a.pipeline.ResetFailed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Reset %d failed summaries.\n", n)
			return nil
		})
	},
}

func printBatchReport(rep scheduler.Report) {
	if rep.Processed == 0 {
		fmt.Println("Nothing to do: no unsummarized notes.")
		return
	}
	fmt.Printf("Summarized %d notes (%d succeeded, %d failed).\n",
		rep.Processed, rep.Succeeded, rep.Failed)
	if rep.Failed > 0 {
		fmt.Println("Run 'chestnut reset-failed' and summarize again to retry failures.")
	}
}

// withApp assembles the pipeline, runs fn, and handles teardown and errors
// uniformly across subcommands.
func withApp(fn func(a *app) error) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()
	if err := fn(a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		a.Close()
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(summarizeFirstNCmd)
	rootCmd.AddCommand(summarizeNoteCmd)
	rootCmd.AddCommand(resetFailedCmd)
}
