package emergency

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fieldsync/internal/app/agent"
)

var EmergencyCmd = &cobra.Command{
	Use:   "emergency",
	Short: "List and claim emergency interventions",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := agent.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("agent not initialized")
		}
		defer app.Close()

		return listOpen(cmd, app)
	},
}

var ClaimCmd = &cobra.Command{
	Use:   "claim <id>",
	Short: "Try to claim an open emergency",
	Long: `Races for the emergency. At most one technician wins; everyone else gets
"already taken". Claiming again after a win is harmless.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := agent.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("agent not initialized")
		}
		defer app.Close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid emergency id %q", args[0])
		}

		// The app notifier prints exactly one outcome toast per attempt:
		// won, already taken, or try again later. Nothing to add here.
		_, _ = app.ClaimEmergency(cmd.Context(), id)
		return nil
	},
}

func listOpen(cmd *cobra.Command, app *agent.App) error {
	emergencies, err := app.OpenEmergencies(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list emergencies: %w", err)
	}

	if len(emergencies) == 0 {
		fmt.Println("No open emergencies.")
		return nil
	}

	fmt.Printf("Open emergencies: %d\n\n", len(emergencies))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREF\tCLIENT\tLOCATION\tBONUS")
	for _, em := range emergencies {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f %s\n",
			em.ID,
			em.InterventionRef,
			em.ClientName,
			em.Location,
			em.BonusAmount,
			em.Currency,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nClaim with: fieldsync emergency claim <id>")
	return nil
}
