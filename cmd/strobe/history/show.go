package historycmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/strobe/pkg/cliui"
	"github.com/papercomputeco/strobe/pkg/history"
	"github.com/papercomputeco/strobe/pkg/jsonvalue"
	"github.com/papercomputeco/strobe/pkg/stream"
)

const showLongDesc string = `Print one recorded session's events.

The session id may be abbreviated to any unique prefix.

Examples:
  strobe history show 4f9f0cd8-98e3-4b7a-b0a5-21cf0e1f3c55
  strobe history show 4f9f0cd8
  strobe history show 4f9f0cd8 --raw`

const showShortDesc string = "Print one session's events"

func newShowCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw payloads without JSON formatting")

	return cmd
}

func runShow(cmd *cobra.Command, id string, raw bool) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := resolveSession(cmd.Context(), store, id)
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s %s\n  %s %s %s\n  %s %s\n\n",
		cliui.KeyStyle.Render("Session:"), cliui.ValueStyle.Render(sess.ID),
		cliui.KeyStyle.Render("Request:"), sess.Method, cliui.ValueStyle.Render(sess.URL),
		cliui.KeyStyle.Render("Outcome:"), sess.Outcome,
	)

	events, err := store.SessionEvents(cmd.Context(), sess.ID)
	if err != nil {
		return err
	}

	for _, ev := range events {
		text := ev.Raw
		if !raw && ev.Category == stream.CategoryData {
			if parsed, err := jsonvalue.Parse(ev.Raw); err == nil {
				text = parsed.JSON(jsonvalue.Indent)
			}
		}

		prefix := cliui.FormatTimestamp(ev.Time) + " " + cliui.CategoryBadge(ev.Category)
		if strings.Contains(text, "\n") {
			fmt.Printf("%s\n%s\n", prefix, text)
		} else {
			fmt.Printf("%s %s\n", prefix, text)
		}
	}

	return nil
}

// resolveSession finds a session by full id or by a unique id prefix.
func resolveSession(ctx context.Context, store *history.Store, id string) (history.Session, error) {
	sess, err := store.GetSession(ctx, id)
	if err == nil {
		return sess, nil
	}

	sessions, err := store.ListSessions(ctx, 0)
	if err != nil {
		return history.Session{}, err
	}

	var matches []history.Session
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, id) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return history.Session{}, history.ErrNotFound{ID: id}
	case 1:
		return matches[0], nil
	default:
		return history.Session{}, fmt.Errorf("session id prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}
