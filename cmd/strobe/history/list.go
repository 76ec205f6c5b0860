package historycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/strobe/pkg/cliui"
	"github.com/papercomputeco/strobe/pkg/utils"
)

const listLongDesc string = `List recorded sessions, newest first.

Examples:
  strobe history list
  strobe history list --limit 5`

const listShortDesc string = "List recorded sessions"

func newListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to list (0 = all)")

	return cmd
}

func runList(cmd *cobra.Command, limit int) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.ListSessions(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No recorded sessions."))
		return nil
	}

	fmt.Println()
	for _, sess := range sessions {
		fmt.Printf("  %s  %s  %-7s %-8s %s\n",
			cliui.KeyStyle.Render(sess.ID[:8]),
			cliui.DimStyle.Render(sess.StartedAt.Format("2006-01-02 15:04:05")),
			sess.Method,
			sess.Outcome,
			cliui.ValueStyle.Render(utils.Truncate(sess.URL, 48)),
		)
	}
	fmt.Println()

	return nil
}
