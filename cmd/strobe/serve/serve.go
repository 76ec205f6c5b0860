// Package servecmder provides the serve command for running the local
// test event source.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/strobe/emitter"
	"github.com/papercomputeco/strobe/pkg/config"
	"github.com/papercomputeco/strobe/pkg/logger"
)

const serveLongDesc string = `Run a local SSE event source for testing.

The emitter serves JSON-RPC progress notifications as server-sent
events on GET /events, and answers POST /rpc requests with a one-event
response stream. Point strobe stream or strobe watch at it:

  strobe serve &
  strobe stream http://localhost:8525/events

Examples:
  strobe serve
  strobe serve --listen :9000 --interval 250ms
  strobe serve --count 10`

const serveShortDesc string = "Run a local SSE test event source"

type ServeCommander struct {
	listen   string
	interval time.Duration
	count    int
	debug    bool
	logger   *zap.Logger
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			if err := cmder.applyConfig(cmd, configDir); err != nil {
				return err
			}

			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", config.DefaultEmitterListen, "Address to listen on")
	cmd.Flags().DurationVarP(&cmder.interval, "interval", "i", time.Second, "Delay between events")
	cmd.Flags().IntVarP(&cmder.count, "count", "c", 0, "Events to emit per connection (0 = unlimited)")

	return cmd
}

// applyConfig fills in flag values from the config file when the user
// did not set them explicitly.
func (c *ServeCommander) applyConfig(cmd *cobra.Command, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cmd.Flags().Changed("listen") && cfg.Emitter.Listen != "" {
		c.listen = cfg.Emitter.Listen
	}
	if !cmd.Flags().Changed("interval") && cfg.Emitter.Interval != "" {
		interval, err := time.ParseDuration(cfg.Emitter.Interval)
		if err != nil {
			return fmt.Errorf("invalid emitter.interval in config: %w", err)
		}
		c.interval = interval
	}
	if !cmd.Flags().Changed("count") && cfg.Emitter.Count != 0 {
		c.count = cfg.Emitter.Count
	}

	return nil
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewZap(c.debug)
	defer c.logger.Sync()

	e := emitter.New(emitter.Config{
		ListenAddr: c.listen,
		Interval:   c.interval,
		Count:      c.count,
	}, c.logger)
	defer e.Close()

	errChan := make(chan error, 1)
	go func() {
		if err := e.Run(); err != nil {
			errChan <- fmt.Errorf("emitter error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return nil
	}
}
