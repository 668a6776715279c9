// cmd/agent/cmd/init.go
package cmd

import (
	"fieldsync/cmd/agent/cmd/emergency"
	"fieldsync/cmd/agent/cmd/intervention"
	"fieldsync/cmd/agent/cmd/pending"
	"fieldsync/cmd/agent/cmd/sync"
)

func init() {
	rootCmd.AddCommand(intervention.InterventionCmd)
	rootCmd.AddCommand(intervention.StockCmd)

	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(pending.PendingCmd)

	rootCmd.AddCommand(emergency.EmergencyCmd)
	emergency.EmergencyCmd.AddCommand(emergency.ClaimCmd)
}
