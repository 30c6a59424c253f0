package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull new watch events from the source service",
		RunE:  runSyncCmd,
	}
	syncCmd.Flags().String("since", "", "Re-sync from an explicit date (YYYY-MM-DD) instead of the cursor")

	rootCmd.AddCommand(syncCmd)
}

func runSyncCmd(cmd *cobra.Command, args []string) error {
	since, _ := cmd.Flags().GetString("since")

	client := NewClient(serverURL)

	var result *SyncResultResponse
	var err error
	if since != "" {
		t, perr := time.Parse("2006-01-02", since)
		if perr != nil {
			return fmt.Errorf("invalid --since date %q, expected YYYY-MM-DD", since)
		}
		result, err = client.Resync(t)
	} else {
		result, err = client.Sync()
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}

	fmt.Println("Sync complete:")
	fmt.Printf("  New movie watches:    %d\n", result.NewMovieWatches)
	fmt.Printf("  New episode watches:  %d\n", result.NewEpisodeWatches)
	fmt.Printf("  Watchlist updates:    %d\n", result.UpdatedWatchlistItems)
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}
	return nil
}
