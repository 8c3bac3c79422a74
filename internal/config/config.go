// Package config loads and saves the global resolver settings.
//
// Loading is deliberately forgiving: a missing or malformed file yields the
// defaults with a logged warning, never an error, so a broken config can't
// keep the resolver from running. Saving is atomic (write to a temp file in
// the same directory, then rename).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/lodestar/pkg/errors"
	"github.com/agentstation/lodestar/pkg/logging"
)

// Settings is the persisted global section.
type Settings struct {
	// HelpWithTesting makes testing-stability versions acceptable by
	// default.
	HelpWithTesting bool `yaml:"help_with_testing"`

	// NetworkUse is one of "full", "minimal", or "off-line".
	NetworkUse string `yaml:"network_use"`

	// Freshness is the metadata freshness window in seconds. Zero means
	// cached metadata never goes stale.
	Freshness int `yaml:"freshness"`
}

// Defaults returns the settings used when no configuration exists.
func Defaults() Settings {
	return Settings{
		HelpWithTesting: false,
		NetworkUse:      "full",
		Freshness:       30 * 24 * 60 * 60,
	}
}

// DefaultPath returns the default settings file location under the user
// configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "lodestar", "global.yaml")
	}
	return filepath.Join(dir, "lodestar", "global.yaml")
}

// Load reads the settings file at path (the default location when path is
// empty), with LODESTAR_* environment variables taking precedence. Any load
// problem is non-fatal: the error is logged and defaults apply.
func Load(path string) Settings {
	// .env files feed the environment overrides, as elsewhere in the stack.
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("lodestar")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Defaults()
	v.SetDefault("help_with_testing", defaults.HelpWithTesting)
	v.SetDefault("network_use", defaults.NetworkUse)
	v.SetDefault("freshness", defaults.Freshness)

	if err := v.ReadInConfig(); err != nil {
		// A missing file just means defaults; anything else is reported.
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			logging.Warn().Err(err).Str("path", path).Msg("Error loading config; using defaults")
			return defaults
		}
	}

	s := Settings{
		HelpWithTesting: v.GetBool("help_with_testing"),
		NetworkUse:      v.GetString("network_use"),
		Freshness:       v.GetInt("freshness"),
	}
	if s.Freshness < 0 {
		logging.Warn().Int("freshness", s.Freshness).Msg("Negative freshness in config; using default")
		s.Freshness = defaults.Freshness
	}
	return s
}

// Save writes the settings to path (the default location when path is empty)
// atomically.
func Save(path string, s Settings) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewConfigError(path, "creating config directory", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.NewConfigError(path, "encoding settings", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".global-*.yaml")
	if err != nil {
		return errors.NewConfigError(path, "creating temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewConfigError(path, "writing settings", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewConfigError(path, "closing temp file", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.NewConfigError(path, "replacing settings file", err)
	}
	return nil
}
