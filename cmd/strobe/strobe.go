// Package strobecmder
package strobecmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/strobe/cmd/strobe/config"
	historycmder "github.com/papercomputeco/strobe/cmd/strobe/history"
	jsoncmder "github.com/papercomputeco/strobe/cmd/strobe/jsonfmt"
	servecmder "github.com/papercomputeco/strobe/cmd/strobe/serve"
	streamcmder "github.com/papercomputeco/strobe/cmd/strobe/stream"
	templatescmder "github.com/papercomputeco/strobe/cmd/strobe/templates"
	watchcmder "github.com/papercomputeco/strobe/cmd/strobe/watch"
	versioncmder "github.com/papercomputeco/strobe/cmd/version"
)

const strobeLongDesc string = `Strobe is a probe for SSE streaming endpoints.

Connect to a server-sent-events endpoint and watch its payloads live:
  strobe stream <url>    Stream events to the terminal
  strobe watch <url>     Stream events in an interactive TUI
  strobe serve           Run a local test event source`

const strobeShortDesc string = "Strobe - SSE stream probe"

func NewStrobeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strobe",
		Short: strobeShortDesc,
		Long:  strobeLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .strobe config directory")

	// Add subcommands
	cmd.AddCommand(streamcmder.NewStreamCmd())
	cmd.AddCommand(watchcmder.NewWatchCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(templatescmder.NewTemplatesCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(jsoncmder.NewJSONCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
