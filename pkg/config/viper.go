package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/chatbox/pkg/dotdir"
)

// EnvPrefix is the prefix of environment variables read by InitViper.
const EnvPrefix = "CHATBOX"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the CHATBOX_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (CHATBOX_COMPLETION_TARGET, CHATBOX_SESSION_APOLOGY, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
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

	// 3. Environment variables: CHATBOX_COMPLETION_TARGET, CHATBOX_EVENTSTREAM_TOPIC, etc.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper assembles a Config from the resolved viper values and validates
// the fields that need parsing.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Version: v.GetInt("version"),
		Completion: CompletionConfig{
			Target:  v.GetString("completion.target"),
			Timeout: v.GetString("completion.timeout"),
		},
		Session: SessionConfig{
			ThinkingDelay: v.GetString("session.thinking_delay"),
			Placeholder:   v.GetString("session.placeholder"),
			Apology:       v.GetString("session.apology"),
			Farewell:      v.GetString("session.farewell"),
		},
		EventStream: EventStreamConfig{
			Brokers: v.GetString("eventstream.brokers"),
			Topic:   v.GetString("eventstream.topic"),
		},
	}

	if err := setEventStreamProvider(cfg, v.GetString("eventstream.provider")); err != nil {
		return nil, err
	}
	if _, err := cfg.CompletionTimeout(); err != nil {
		return nil, err
	}
	if _, err := cfg.ThinkingDelay(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Completion
	v.SetDefault("completion.target", d.Completion.Target)
	v.SetDefault("completion.timeout", d.Completion.Timeout)

	// Session
	v.SetDefault("session.thinking_delay", d.Session.ThinkingDelay)
	v.SetDefault("session.placeholder", d.Session.Placeholder)
	v.SetDefault("session.apology", d.Session.Apology)
	v.SetDefault("session.farewell", d.Session.Farewell)

	// Event stream
	v.SetDefault("eventstream.provider", d.EventStream.Provider)
	v.SetDefault("eventstream.brokers", d.EventStream.Brokers)
	v.SetDefault("eventstream.topic", d.EventStream.Topic)
}
