package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gsbatch/internal/config"
	"gsbatch/internal/history"
	"gsbatch/internal/report"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent batch runs from the local journal",
	RunE:  showHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "How many runs to show")
}

func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history at %s: %w", cfg.History.Path, err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %s  %s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			runStatus(run),
			report.Note(run.CourseURL))
	}
	return nil
}

func runStatus(run history.Run) string {
	status := fmt.Sprintf("%d/%d created", run.Succeeded, run.Total)
	switch {
	case run.Succeeded == run.Total:
		return report.Good(status)
	case run.Succeeded == 0:
		return report.Bad(status)
	default:
		return report.Warn(status)
	}
}
