package pending

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fieldsync/internal/app/agent"
)

var (
	cleanup bool
	reset   bool
)

var PendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Inspect the queue of not-yet-synced actions",
	Long: `Lists every action waiting to reach the backend, oldest first. The order
shown is the order they will be replayed in.

--cleanup purges items with a broken intervention reference. --reset drops the
whole queue; anything not yet synced is lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := agent.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("agent not initialized")
		}
		defer app.Close()

		if cleanup {
			purged, err := app.CleanupQueue()
			if err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}
			fmt.Printf("Purged %d corrupted item(s).\n", purged)
			return nil
		}

		if reset {
			if err := app.ResetQueue(); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}
			fmt.Println("Queue cleared. Unsynced actions are gone.")
			return nil
		}

		return listPending(app)
	},
}

func listPending(app *agent.App) error {
	items, err := app.PendingItems()
	if err != nil {
		return fmt.Errorf("failed to read queue: %w", err)
	}

	if len(items) == 0 {
		fmt.Println("Queue is empty.")
		return nil
	}

	fmt.Printf("Queued actions: %d\n\n", len(items))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tINTERVENTION\tQUEUED AT\tRETRIES")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\tINT-%d\t%s\t%d\n",
			item.ID,
			item.Kind,
			item.InterventionID,
			item.CreatedAt.Format("2006-01-02 15:04:05"),
			item.RetryCount,
		)
	}
	return w.Flush()
}

func init() {
	PendingCmd.Flags().BoolVar(&cleanup, "cleanup", false, "Purge corrupted queue items")
	PendingCmd.Flags().BoolVar(&reset, "reset", false, "Drop the entire queue")
}
