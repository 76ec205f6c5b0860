// Package watchcmder provides the watch command: an interactive TUI
// for observing an SSE stream with live start/stop control.
package watchcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/strobe/pkg/config"
	"github.com/papercomputeco/strobe/pkg/jsonrpc"
	"github.com/papercomputeco/strobe/pkg/stream"
)

const watchLongDesc string = `Watch an SSE endpoint in an interactive TUI.

The event log scrolls live as payloads arrive. The stream can be
stopped and restarted without leaving the view, and display toggles
(JSON formatting, timestamps, auto-scroll) apply immediately. Edits to
the config file are picked up while the TUI is running.

The URL argument is optional when request.url is set in the config file.

Keys:
  s          start/stop the stream
  c          clear the event log
  f          toggle JSON formatting
  t          toggle timestamps
  a          toggle auto-scroll
  j/k        scroll
  q          quit

Examples:
  strobe watch http://localhost:8525/events
  strobe watch http://localhost:8525/rpc -X POST -t initialize`

const watchShortDesc string = "Watch an SSE stream in a TUI"

type WatchCommander struct {
	url       string
	method    string
	headers   []string
	body      string
	template  string
	configDir string
}

func NewWatchCmd() *cobra.Command {
	cmder := &WatchCommander{}

	cmd := &cobra.Command{
		Use:   "watch [url]",
		Short: watchShortDesc,
		Long:  watchLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			if len(args) > 0 {
				cmder.url = args[0]
			}
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.method, "method", "X", "", "HTTP method (GET or POST)")
	cmd.Flags().StringArrayVarP(&cmder.headers, "header", "H", nil, `Request header ("Key: Value", repeatable)`)
	cmd.Flags().StringVarP(&cmder.body, "data", "b", "", "Request body (POST only)")
	cmd.Flags().StringVarP(&cmder.template, "template", "t", "", "JSON-RPC request template to send as the body")

	return cmd
}

func (c *WatchCommander) run(ctx context.Context) error {
	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	streamCfg, err := c.buildStreamConfig(cfg)
	if err != nil {
		return err
	}

	return runWatchTUI(ctx, cfger, cfg, streamCfg)
}

// buildStreamConfig merges config-file defaults, flags, and the
// optional template. Flags win over the config file.
func (c *WatchCommander) buildStreamConfig(cfg *config.Config) (stream.Config, error) {
	streamCfg := stream.Config{
		URL:       cfg.Request.URL,
		Method:    cfg.Request.Method,
		Headers:   cfg.Request.StreamHeaders(),
		Body:      cfg.Request.Body,
		ParseJSON: cfg.Display.FormatJSON,
	}

	if c.url != "" {
		streamCfg.URL = c.url
	}
	if streamCfg.URL == "" {
		return stream.Config{}, fmt.Errorf("no URL given and request.url is not set in config")
	}

	if c.method != "" {
		streamCfg.Method = strings.ToUpper(c.method)
	}
	if c.body != "" {
		streamCfg.Body = c.body
	}

	if c.template != "" {
		body, err := jsonrpc.NewSession().Render(c.template)
		if err != nil {
			return stream.Config{}, err
		}
		streamCfg.Body = body
		streamCfg.Method = "POST"
		streamCfg.Headers = append(streamCfg.Headers, stream.Header{Key: "Content-Type", Value: "application/json"})
	}

	for _, raw := range c.headers {
		key, value, found := strings.Cut(raw, ":")
		if !found || strings.TrimSpace(key) == "" {
			return stream.Config{}, fmt.Errorf("invalid header %q, expected \"Key: Value\"", raw)
		}
		streamCfg.Headers = append(streamCfg.Headers, stream.Header{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}

	return streamCfg, nil
}
