// Package jsoncmder provides the json command for formatting,
// minifying, and checking JSON-RPC payloads outside a live stream.
package jsoncmder

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/strobe/pkg/cliui"
	"github.com/papercomputeco/strobe/pkg/jsonvalue"
)

const jsonLongDesc string = `Format, minify, or check a JSON document.

Input comes from a file argument or from stdin. Object member order is
preserved exactly as written; formatting only changes whitespace.

Use subcommands for each rewrite:
  strobe json fmt [file]     Pretty-print with 2-space indentation
  strobe json min [file]     Strip all inserted whitespace
  strobe json check [file]   Validate and report the first error

Examples:
  strobe json fmt payload.json
  echo '{"a":1}' | strobe json fmt
  strobe json check payload.json`

const jsonShortDesc string = "Format, minify, or check JSON"

func NewJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: jsonShortDesc,
		Long:  jsonLongDesc,
	}

	cmd.AddCommand(newFmtCmd())
	cmd.AddCommand(newMinCmd())
	cmd.AddCommand(newCheckCmd())

	return cmd
}

func newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print JSON with 2-space indentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			out, err := jsonvalue.Format(text)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newMinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "min [file]",
		Short: "Strip all inserted whitespace from JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			out, err := jsonvalue.Minify(text)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate JSON and report the first error",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			result := jsonvalue.Validate(text)
			if !result.Valid {
				return fmt.Errorf("%s %s", cliui.FailMark, result.Err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s valid JSON\n", cliui.SuccessMark)
			return nil
		},
	}
}

// readInput returns the file argument's contents, or stdin when no
// file is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
