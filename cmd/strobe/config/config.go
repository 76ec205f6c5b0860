// Package configcmder provides the config command for managing persistent
// strobe configuration stored in the .strobe/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent strobe configuration.

Configuration is stored as config.toml in the .strobe/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  request.url, request.method, request.body,
  display.format_json, display.show_timestamps, display.auto_scroll,
  emitter.listen, emitter.interval, emitter.count,
  history.enabled

Use subcommands to get, set, or list configuration values:
  strobe config set <key> <value>    Set a configuration value
  strobe config get <key>            Get a configuration value
  strobe config list                 List all configuration values

Examples:
  strobe config set request.url http://localhost:8525/events
  strobe config set display.format_json false
  strobe config get request.url
  strobe config list`

const configShortDesc string = "Manage persistent strobe configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
