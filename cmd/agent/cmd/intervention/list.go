package intervention

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fieldsync/internal/app/agent"
	"fieldsync/internal/domain/intervention"
)

var listFormat string

var InterventionCmd = &cobra.Command{
	Use:   "interventions",
	Short: "List the technician's interventions",
	Long: `Shows the local working set of interventions. Reads go through the short
TTL cache, then the backend, then the on-device snapshot when offline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := agent.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("agent not initialized")
		}
		defer app.Close()

		interventions, err := app.Interventions(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list interventions: %w", err)
		}

		switch listFormat {
		case "json":
			return printJSON(interventions)
		default:
			return printTable(interventions)
		}
	},
}

var StockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Show the vehicle stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := agent.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("agent not initialized")
		}
		defer app.Close()

		stock, err := app.Stock(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list stock: %w", err)
		}

		if len(stock) == 0 {
			fmt.Println("Stock is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tNAME\tQTY\tUNIT")
		for _, item := range stock {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n",
				item.ProductID, item.ProductName, item.Quantity, item.Unit)
		}
		return w.Flush()
	},
}

func printTable(interventions []intervention.Intervention) error {
	if len(interventions) == 0 {
		fmt.Println("No interventions.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REF\tLABEL\tCLIENT\tLOCATION\tSTATUS\tSCHEDULED")
	for _, iv := range interventions {
		scheduled := "-"
		if iv.ScheduledAt != nil {
			scheduled = iv.ScheduledAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			iv.Ref, iv.Label, iv.ClientName, iv.Location, iv.Status, scheduled)
	}
	return w.Flush()
}

func printJSON(interventions []intervention.Intervention) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(interventions)
}

func init() {
	InterventionCmd.Flags().StringVar(&listFormat, "format", "table", "Output format: table, json")
}
