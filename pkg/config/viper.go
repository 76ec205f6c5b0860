package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/strobe/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the STROBE_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by commands)
//  2. Environment variables (STROBE_REQUEST_URL, STROBE_EMITTER_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("STROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source
// of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Request
	v.SetDefault("request.url", d.Request.URL)
	v.SetDefault("request.method", d.Request.Method)
	v.SetDefault("request.body", d.Request.Body)

	// Display
	v.SetDefault("display.format_json", d.Display.FormatJSON)
	v.SetDefault("display.show_timestamps", d.Display.ShowTimestamps)
	v.SetDefault("display.auto_scroll", d.Display.AutoScroll)

	// Emitter
	v.SetDefault("emitter.listen", d.Emitter.Listen)
	v.SetDefault("emitter.interval", d.Emitter.Interval)
	v.SetDefault("emitter.count", d.Emitter.Count)

	// History
	v.SetDefault("history.enabled", d.History.Enabled)
}
