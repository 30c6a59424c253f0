package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the source service (device flow)",
	RunE:  runLoginCmd,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLoginCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	code, err := client.BeginDeviceAuth()
	if err != nil {
		return fmt.Errorf("failed to start device auth: %w", err)
	}

	fmt.Printf("Visit %s and enter the code: %s\n", code.VerificationURL, code.UserCode)
	fmt.Println("Waiting for authorization...")

	interval := time.Duration(code.Interval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	deadline := time.Now().Add(time.Duration(code.ExpiresIn) * time.Second)

	for time.Now().Before(deadline) {
		time.Sleep(interval)

		resp, err := client.PollDeviceAuth(code.DeviceCode)
		if err != nil {
			return fmt.Errorf("authorization failed: %w", err)
		}
		if resp.Authenticated {
			fmt.Println("Authenticated. Run 'trackarr import preview' to get started.")
			return nil
		}
	}

	return fmt.Errorf("device code expired, run 'trackarr login' again")
}
