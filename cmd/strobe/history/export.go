package historycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/strobe/pkg/cliui"
	"github.com/papercomputeco/strobe/pkg/export"
	"github.com/papercomputeco/strobe/pkg/stream"
)

const exportLongDesc string = `Write one recorded session to a JSON file.

The output uses the same document shape as strobe stream -o. The
session id may be abbreviated to any unique prefix.

Examples:
  strobe history export 4f9f0cd8 session.json`

const exportShortDesc string = "Write one session to a JSON file"

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <id> <file>",
		Short: exportShortDesc,
		Long:  exportLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], args[1])
		},
	}

	return cmd
}

func runExport(cmd *cobra.Command, id, path string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := resolveSession(cmd.Context(), store, id)
	if err != nil {
		return err
	}

	rows, err := store.SessionEvents(cmd.Context(), sess.ID)
	if err != nil {
		return err
	}

	events := make([]stream.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, stream.Event{
			ID:        row.Seq,
			Timestamp: row.Time,
			Raw:       row.Raw,
			Category:  row.Category,
		})
	}

	doc := export.Build(stream.Config{URL: sess.URL, Method: sess.Method}, events)
	doc.Timestamp = sess.StartedAt

	if err := doc.Write(path); err != nil {
		return err
	}

	fmt.Printf("\n  %s Wrote %s\n\n", cliui.SuccessMark, cliui.ValueStyle.Render(path))
	return nil
}
