package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Manage library content",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List content in library",
		RunE:  runLibraryList,
	}
	listCmd.Flags().StringP("type", "t", "", "Filter by type (movie, series)")
	listCmd.Flags().Bool("watchlist", false, "Only show watchlist entries")
	listCmd.Flags().IntP("limit", "l", 50, "Maximum number of items to return")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete content from library",
		Long:  "Removes content and its watch history from the library.",
		Args:  cobra.ExactArgs(1),
		RunE:  runLibraryDelete,
	}

	rateCmd := &cobra.Command{
		Use:   "rate <id> <rating>",
		Short: "Rate content (1-5)",
		Args:  cobra.ExactArgs(2),
		RunE:  runLibraryRate,
	}

	watchlistCmd := &cobra.Command{
		Use:   "watchlist <id> <on|off>",
		Short: "Set the watchlist flag on content",
		Args:  cobra.ExactArgs(2),
		RunE:  runLibraryWatchlist,
	}

	libraryCmd.AddCommand(listCmd, deleteCmd, rateCmd, watchlistCmd)
	rootCmd.AddCommand(libraryCmd)
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	contentType, _ := cmd.Flags().GetString("type")
	watchlistOnly, _ := cmd.Flags().GetBool("watchlist")
	limit, _ := cmd.Flags().GetInt("limit")

	client := NewClient(serverURL)
	resp, err := client.ListContent(contentType, watchlistOnly, limit)
	if err != nil {
		return fmt.Errorf("failed to list content: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if len(resp.Items) == 0 {
		fmt.Println("Library is empty")
		return nil
	}

	fmt.Printf("Library (%d items):\n\n", resp.Total)
	fmt.Printf("  %-6s %-7s %-40s %-6s %-7s %s\n", "ID", "TYPE", "TITLE", "YEAR", "RATING", "WATCHLIST")
	fmt.Println("  " + strings.Repeat("-", 80))
	for _, c := range resp.Items {
		rating := "-"
		if c.Rating != nil {
			rating = strconv.Itoa(*c.Rating)
		}
		watchlist := ""
		if c.OnWatchlist {
			watchlist = "yes"
		}
		title := c.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Printf("  %-6d %-7s %-40s %-6d %-7s %s\n", c.ID, c.Type, title, c.Year, rating, watchlist)
	}

	return nil
}

func runLibraryDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id: %s", args[0])
	}

	client := NewClient(serverURL)
	if err := client.DeleteContent(id); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	fmt.Printf("Deleted content %d\n", id)
	return nil
}

func runLibraryRate(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id: %s", args[0])
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil || rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}

	client := NewClient(serverURL)
	c, err := client.UpdateContent(id, map[string]any{"rating": rating})
	if err != nil {
		return fmt.Errorf("failed to rate: %w", err)
	}

	fmt.Printf("Rated %q %d/5\n", c.Title, rating)
	return nil
}

func runLibraryWatchlist(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id: %s", args[0])
	}
	var on bool
	switch args[1] {
	case "on":
		on = true
	case "off":
		on = false
	default:
		return fmt.Errorf("expected 'on' or 'off', got %q", args[1])
	}

	client := NewClient(serverURL)
	c, err := client.UpdateContent(id, map[string]any{"on_watchlist": on})
	if err != nil {
		return fmt.Errorf("failed to update watchlist: %w", err)
	}

	if on {
		fmt.Printf("Added %q to watchlist\n", c.Title)
	} else {
		fmt.Printf("Removed %q from watchlist\n", c.Title)
	}
	return nil
}
