package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server and sync status",
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("failed to fetch status: %w", err)
	}
	syncStatus, err := client.SyncStatus()
	if err != nil {
		return fmt.Errorf("failed to fetch sync status: %w", err)
	}
	stats, err := client.Stats()
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]any{
			"status": status,
			"sync":   syncStatus,
			"stats":  stats,
		})
		return nil
	}

	fmt.Printf("trackarr %s\n\n", status.Version)

	fmt.Println("Source service:")
	if status.Authenticated {
		fmt.Println("  Authenticated: yes")
	} else {
		fmt.Println("  Authenticated: no (run 'trackarr login')")
	}
	if syncStatus.LastSyncAt != nil {
		fmt.Printf("  Last sync:     %s\n", syncStatus.LastSyncAt.Local().Format("2006-01-02 15:04"))
	} else {
		fmt.Println("  Last sync:     never")
	}
	fmt.Printf("  Auto sync:     %v\n", syncStatus.AutoSyncEnabled)
	if status.ImportRunning {
		fmt.Println("  Import:        running")
	}

	fmt.Println("\nLibrary:")
	fmt.Printf("  Movies:          %d (%d watches)\n", stats.Movies, stats.MovieWatches)
	fmt.Printf("  Series:          %d (%d episode watches)\n", stats.Series, stats.EpisodeWatches)
	fmt.Printf("  Rated:           %d\n", stats.RatedEntries)
	fmt.Printf("  On watchlist:    %d\n", stats.WatchlistEntries)

	return nil
}
