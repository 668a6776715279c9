// cmd/agent/cmd/root.go
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"fieldsync/internal/app/agent"
	"fieldsync/internal/app/agent/config"
	"fieldsync/internal/utils/logger"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	app       *agent.App
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "fieldsync",
	Short: "FieldSync - offline-first field agent for intervention work",
	Long: `FieldSync keeps a technician's interventions, stock and queued actions
on the device so work continues without coverage. Every local action lands in a
durable queue and is replayed to the backend once the connection comes back.

It also listens for broadcast emergencies and lets the technician race for the
claim bonus.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	log = logger.New(cfg.Env)

	var err error
	app, err = agent.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	cmd.SetContext(agent.NewContext(cmd.Context(), app))
	return nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent in the foreground",
	Long: `Starts the connectivity monitor and the realtime emergency feed, and keeps
syncing in the background until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := agent.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("agent not initialized")
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := app.RefreshAll(ctx); err != nil {
			fmt.Printf("Warning: initial refresh failed, working from local snapshots: %v\n", err)
		}

		app.RunBackground(ctx)
		fmt.Println("Agent running. Press Ctrl+C to stop.")

		<-ctx.Done()
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh local snapshots from the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := agent.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("agent not initialized")
		}
		defer app.Close()

		if err := app.RefreshAll(cmd.Context()); err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
		fmt.Println("Snapshots refreshed.")
		return nil
	},
}

func init() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "FieldSync server address")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(refreshCmd)
}
