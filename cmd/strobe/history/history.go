// Package historycmder provides the history command for browsing
// recorded stream sessions.
package historycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/strobe/pkg/dotdir"
	"github.com/papercomputeco/strobe/pkg/history"
)

const historyLongDesc string = `Browse recorded stream sessions.

Sessions are recorded to history.db in the .strobe/ directory whenever
history.enabled is true and a stream is not started with --no-record.

Use subcommands to list, inspect, or export sessions:
  strobe history list               List recorded sessions
  strobe history show <id>          Print one session's events
  strobe history export <id> <file> Write one session to a JSON file

Examples:
  strobe history list
  strobe history show 4f9f0cd8-98e3-4b7a-b0a5-21cf0e1f3c55
  strobe history export 4f9f0cd8 session.json`

const historyShortDesc string = "Browse recorded stream sessions"

func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

// openStore opens the history database in the resolved .strobe dir.
func openStore(cmd *cobra.Command) (*history.Store, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	dbPath, err := dotdir.NewManager().HistoryDBPath(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving history path: %w", err)
	}

	return history.Open(dbPath)
}
