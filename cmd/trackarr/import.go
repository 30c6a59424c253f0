package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func importFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("movies", true, "Include watched movies")
	cmd.Flags().Bool("series", true, "Include watched series")
	cmd.Flags().Bool("watchlist", true, "Include watchlist")
	cmd.Flags().Bool("ratings", true, "Include ratings")
}

func optionsFromFlags(cmd *cobra.Command) ImportOptions {
	movies, _ := cmd.Flags().GetBool("movies")
	series, _ := cmd.Flags().GetBool("series")
	watchlist, _ := cmd.Flags().GetBool("watchlist")
	ratings, _ := cmd.Flags().GetBool("ratings")
	return ImportOptions{Movies: movies, Series: series, Watchlist: watchlist, Ratings: ratings}
}

func init() {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import watch history from the source service",
	}

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Show what an import would bring in, without writing anything",
		RunE:  runImportPreview,
	}
	importFlags(previewCmd)

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a full import",
		RunE:  runImportStart,
	}
	importFlags(startCmd)
	startCmd.Flags().Bool("wait", false, "Block and show progress until the import finishes")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show import progress",
		RunE:  runImportStatus,
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the running import",
		RunE:  runImportCancel,
	}

	importCmd.AddCommand(previewCmd, startCmd, statusCmd, cancelCmd)
	rootCmd.AddCommand(importCmd)
}

func runImportPreview(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	preview, err := client.ImportPreview(optionsFromFlags(cmd))
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	if jsonOutput {
		printJSON(preview)
		return nil
	}

	fmt.Println("Import preview:")
	fmt.Printf("  %-10s %6s %12s %6s\n", "", "TOTAL", "IN LIBRARY", "NEW")
	printPreviewRow("Movies", preview.Movies)
	printPreviewRow("Series", preview.Series)
	printPreviewRow("Watchlist", preview.Watchlist)
	fmt.Printf("\n  %d items total, %d already in library, %d new\n",
		preview.TotalItems, preview.AlreadyInLibrary, preview.NewItems)
	return nil
}

func printPreviewRow(label string, c PreviewCategory) {
	fmt.Printf("  %-10s %6d %12d %6d\n", label, c.Total, c.InLibrary, c.New)
}

func runImportStart(cmd *cobra.Command, args []string) error {
	wait, _ := cmd.Flags().GetBool("wait")

	client := NewClient(serverURL)
	resp, err := client.StartImport(optionsFromFlags(cmd))
	if err != nil {
		return fmt.Errorf("import failed to start: %w", err)
	}

	fmt.Printf("Import started (run %s)\n", resp.RunID)
	if !wait {
		fmt.Println("Use 'trackarr import status' to follow progress.")
		return nil
	}

	for {
		time.Sleep(2 * time.Second)
		status, err := client.ImportStatus()
		if err != nil {
			return fmt.Errorf("failed to fetch status: %w", err)
		}
		if !status.InProgress {
			printImportStatus(status)
			return nil
		}
		fmt.Printf("  %d/%d  %s\n", status.Completed, status.Total, status.CurrentItem)
	}
}

func runImportStatus(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	status, err := client.ImportStatus()
	if err != nil {
		return fmt.Errorf("failed to fetch status: %w", err)
	}

	if jsonOutput {
		printJSON(status)
		return nil
	}

	printImportStatus(status)
	return nil
}

func printImportStatus(status *ImportStatusResponse) {
	if status.RunID == "" {
		fmt.Println("No import has run yet")
		return
	}
	state := "finished"
	if status.InProgress {
		state = "running"
	} else if status.CancelRequested {
		state = "cancelled"
	}
	fmt.Printf("Import %s: %s\n", status.RunID, state)
	fmt.Printf("  Progress: %d/%d\n", status.Completed, status.Total)
	if status.InProgress && status.CurrentItem != "" {
		fmt.Printf("  Current:  %s\n", status.CurrentItem)
	}
	if len(status.Errors) > 0 {
		fmt.Printf("  Errors (%d):\n", len(status.Errors))
		for _, e := range status.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}
}

func runImportCancel(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	status, err := client.CancelImport()
	if err != nil {
		return fmt.Errorf("cancel failed: %w", err)
	}

	if status.InProgress {
		fmt.Println("Cancellation requested; the current item will finish first.")
	} else {
		fmt.Println("No import running.")
	}
	return nil
}
