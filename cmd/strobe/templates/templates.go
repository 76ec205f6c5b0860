// Package templatescmder provides the templates command for listing
// the built-in JSON-RPC request templates.
package templatescmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/strobe/pkg/cliui"
	"github.com/papercomputeco/strobe/pkg/jsonrpc"
)

const templatesLongDesc string = `List the built-in JSON-RPC request templates.

Templates render complete JSON-RPC 2.0 request bodies with fresh ids,
ready to send with strobe stream -t <name>. Use --show to print the
rendered body of one template.

Examples:
  strobe templates
  strobe templates --show initialize`

const templatesShortDesc string = "List JSON-RPC request templates"

type TemplatesCommander struct {
	show  string
	plain bool
}

func NewTemplatesCmd() *cobra.Command {
	cmder := &TemplatesCommander{}

	cmd := &cobra.Command{
		Use:   "templates",
		Short: templatesShortDesc,
		Long:  templatesLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.show, "show", "s", "", "Print the rendered body of one template")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Skip markdown rendering")

	return cmd
}

func (c *TemplatesCommander) run() error {
	if c.show != "" {
		body, err := jsonrpc.NewSession().Render(c.show)
		if err != nil {
			return err
		}
		fmt.Println(body)
		return nil
	}

	var doc strings.Builder
	doc.WriteString("# JSON-RPC Templates\n\n")
	doc.WriteString(fmt.Sprintf("Protocol version `%s`. Send one with `strobe stream <url> -t <name>`.\n\n", jsonrpc.ProtocolVersion))

	for _, tmpl := range jsonrpc.All() {
		doc.WriteString(fmt.Sprintf("- `%s`: %s\n", tmpl.Name, tmpl.Description))
	}

	if c.plain {
		fmt.Print(doc.String())
		return nil
	}

	rendered, err := cliui.RenderMarkdown(doc.String())
	if err != nil {
		// Fall back to the raw markdown on render failure.
		fmt.Print(doc.String())
		return nil
	}

	fmt.Print(rendered)
	return nil
}
