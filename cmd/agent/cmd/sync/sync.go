package sync

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fieldsync/internal/app/agent"
)

var syncStatus bool

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push queued actions to the backend",
	Long: `Drains the pending queue against the backend, one item at a time, in the
order the actions were taken. Acknowledged items leave the queue; failed items
stay put and are retried on the next pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := agent.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("agent not initialized")
		}
		defer app.Close()

		if syncStatus {
			return showStatus(app)
		}

		return runSync(cmd, app)
	},
}

func runSync(cmd *cobra.Command, app *agent.App) error {
	fmt.Println("=== Sync ===")

	start := time.Now()
	result := app.Sync(cmd.Context())
	duration := time.Since(start)

	fmt.Println()
	fmt.Printf("Done in %v\n", duration.Round(time.Millisecond))
	fmt.Printf("Pushed: %d\n", result.Success)

	if result.Failed > 0 {
		fmt.Printf("Failed: %d\n", result.Failed)
		for i, msg := range result.Errors {
			if i >= 3 {
				fmt.Printf("  +%d more\n", len(result.Errors)-3)
				break
			}
			fmt.Printf("  - %s\n", msg)
		}
	}

	state := app.SyncState()
	fmt.Printf("Still queued: %d\n", state.PendingCount)
	return nil
}

func showStatus(app *agent.App) error {
	fmt.Println("=== Sync status ===")

	state := app.SyncState()
	fmt.Printf("Queued actions: %d\n", state.PendingCount)

	if state.LastSyncAt.IsZero() {
		fmt.Println("Last sync: never")
	} else {
		fmt.Printf("Last sync: %s\n", state.LastSyncAt.Format("2006-01-02 15:04:05"))
	}

	if len(state.Errors) > 0 {
		fmt.Printf("Errors from last pass: %d\n", len(state.Errors))
		for i, msg := range state.Errors {
			if i >= 3 {
				fmt.Printf("  +%d more\n", len(state.Errors)-3)
				break
			}
			fmt.Printf("  - %s\n", msg)
		}
	}

	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "Show queue status instead of syncing")
}
