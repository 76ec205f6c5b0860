// Package streamcmder provides the stream command: connect to an SSE
// endpoint and print its events to the terminal as they arrive.
package streamcmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/strobe/pkg/cliui"
	"github.com/papercomputeco/strobe/pkg/config"
	"github.com/papercomputeco/strobe/pkg/dotdir"
	"github.com/papercomputeco/strobe/pkg/export"
	"github.com/papercomputeco/strobe/pkg/history"
	"github.com/papercomputeco/strobe/pkg/jsonrpc"
	"github.com/papercomputeco/strobe/pkg/logger"
	"github.com/papercomputeco/strobe/pkg/stream"
	"github.com/papercomputeco/strobe/pkg/utils"
)

const streamLongDesc string = `Connect to an SSE endpoint and stream its events to the terminal.

Events print as they arrive, one per block, tagged with their category.
JSON payloads are pretty-printed when display.format_json is enabled.
Press Ctrl-C to stop the stream; a clean server close ends it naturally.

The URL argument is optional when request.url is set in the config file.

Examples:
  strobe stream http://localhost:8525/events
  strobe stream http://localhost:8525/rpc -X POST -t initialize
  strobe stream http://localhost:8525/events -H "Authorization: Bearer tok"
  strobe stream http://localhost:8525/events -o session.json`

const streamShortDesc string = "Stream SSE events to the terminal"

type StreamCommander struct {
	url       string
	method    string
	headers   []string
	body      string
	template  string
	output    string
	noRecord  bool
	raw       bool
	debug     bool
	configDir string

	cfg *config.Config
}

func NewStreamCmd() *cobra.Command {
	cmder := &StreamCommander{}

	cmd := &cobra.Command{
		Use:   "stream [url]",
		Short: streamShortDesc,
		Long:  streamLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
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
	cmd.Flags().StringVarP(&cmder.output, "output", "o", "", "Write the session to a JSON file when the stream ends")
	cmd.Flags().BoolVar(&cmder.noRecord, "no-record", false, "Skip recording this session to history")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print raw payloads without JSON formatting")

	return cmd
}

func (c *StreamCommander) run(ctx context.Context) error {
	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	c.cfg, err = cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	streamCfg, err := c.buildStreamConfig()
	if err != nil {
		return err
	}

	log := logger.Nop()
	if c.debug {
		log = logger.New(logger.WithDebug(true), logger.WithPretty(true), logger.WithWriter(os.Stderr))
	}

	controller := stream.NewController(stream.WithLogger(log))

	events := controller.Start(ctx, streamCfg)

	// Ctrl-C stops the stream; the controller then drains naturally and
	// closes the channel after its terminal event.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		controller.Stop()
	}()

	formatJSON := c.cfg.Display.FormatJSON && !c.raw
	width := terminalWidth()

	for ev := range events {
		c.printEvent(ev, formatJSON, width)
	}

	outcome := controller.State().String()

	if c.output != "" {
		doc := export.Build(streamCfg, controller.Log())
		fmt.Println()
		if err := cliui.Step(os.Stdout, "writing "+cliui.ValueStyle.Render(c.output), func() error {
			return doc.Write(c.output)
		}); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
	}

	if c.cfg.History.Enabled && !c.noRecord {
		if err := c.record(ctx, streamCfg, outcome, controller.Log()); err != nil {
			// History is best-effort; the stream output already happened.
			fmt.Fprintf(os.Stderr, "  %s recording session: %v\n", cliui.FailMark, err)
		}
	}

	return nil
}

// buildStreamConfig merges config-file defaults, flags, and the
// optional template into the request the controller will send. Flags
// win over the config file.
func (c *StreamCommander) buildStreamConfig() (stream.Config, error) {
	cfg := stream.Config{
		URL:       c.cfg.Request.URL,
		Method:    c.cfg.Request.Method,
		Headers:   c.cfg.Request.StreamHeaders(),
		Body:      c.cfg.Request.Body,
		ParseJSON: c.cfg.Display.FormatJSON,
	}

	if c.url != "" {
		cfg.URL = c.url
	}
	if cfg.URL == "" {
		return stream.Config{}, fmt.Errorf("no URL given and request.url is not set in config")
	}

	if c.method != "" {
		cfg.Method = strings.ToUpper(c.method)
	}
	if c.body != "" {
		cfg.Body = c.body
	}

	if c.template != "" {
		session := jsonrpc.NewSession()
		body, err := session.Render(c.template)
		if err != nil {
			return stream.Config{}, err
		}
		cfg.Body = body
		cfg.Method = "POST"
		cfg.Headers = append(cfg.Headers, stream.Header{Key: "Content-Type", Value: "application/json"})
	}

	for _, raw := range c.headers {
		header, err := parseHeader(raw)
		if err != nil {
			return stream.Config{}, err
		}
		cfg.Headers = append(cfg.Headers, header)
	}

	return cfg, nil
}

func (c *StreamCommander) printEvent(ev stream.Event, formatJSON bool, width int) {
	prefix := cliui.CategoryBadge(ev.Category)
	if c.cfg.Display.ShowTimestamps {
		prefix = cliui.FormatTimestamp(ev.Timestamp) + " " + prefix
	}

	text := ev.Raw
	if formatJSON {
		text = ev.Formatted()
	} else if width > 0 {
		// Unformatted payloads stay one event per line; long ones get
		// truncated to the terminal rather than wrapped.
		text = utils.Truncate(text, width)
	}

	if strings.Contains(text, "\n") {
		fmt.Printf("%s\n%s\n", prefix, text)
	} else {
		fmt.Printf("%s %s\n", prefix, text)
	}
}

// terminalWidth returns the width of stdout when it is a terminal, or
// 0 when output is piped.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}

	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

func (c *StreamCommander) record(ctx context.Context, cfg stream.Config, outcome string, events []stream.Event) error {
	dbPath, err := dotdir.NewManager().HistoryDBPath(c.configDir)
	if err != nil {
		return err
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	recordCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = store.RecordSession(recordCtx, cfg, outcome, events)
	return err
}

// parseHeader splits a "Key: Value" flag into a header pair.
func parseHeader(raw string) (stream.Header, error) {
	key, value, found := strings.Cut(raw, ":")
	if !found || strings.TrimSpace(key) == "" {
		return stream.Header{}, fmt.Errorf("invalid header %q, expected \"Key: Value\"", raw)
	}

	return stream.Header{
		Key:   strings.TrimSpace(key),
		Value: strings.TrimSpace(value),
	}, nil
}
