package config

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the persistent chatbox configuration stored as config.toml
// in the .chatbox/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Completion  CompletionConfig  `toml:"completion"`
	Session     SessionConfig     `toml:"session"`
	EventStream EventStreamConfig `toml:"eventstream"`
}

// CompletionConfig holds settings for the completion service turns are sent to.
type CompletionConfig struct {
	// Target is the full endpoint URL (scheme + host + port + path).
	Target string `toml:"target,omitempty"`

	// Timeout bounds each request, as a Go duration string. Empty means none.
	Timeout string `toml:"timeout,omitempty"`
}

// SessionConfig holds the user-facing behavior of a chat session.
type SessionConfig struct {
	ThinkingDelay string `toml:"thinking_delay,omitempty"`
	Placeholder   string `toml:"placeholder,omitempty"`
	Apology       string `toml:"apology,omitempty"`
	Farewell      string `toml:"farewell,omitempty"`
}

// EventStreamConfig holds settings for publishing settled-turn events.
type EventStreamConfig struct {
	Provider string `toml:"provider,omitempty"`

	// Brokers is a comma separated list of host:port pairs.
	Brokers string `toml:"brokers,omitempty"`
	Topic   string `toml:"topic,omitempty"`
}

// CompletionTimeout parses Completion.Timeout. An empty value is zero.
func (c *Config) CompletionTimeout() (time.Duration, error) {
	return parseDuration("completion.timeout", c.Completion.Timeout)
}

// ThinkingDelay parses Session.ThinkingDelay. An empty value is zero.
func (c *Config) ThinkingDelay() (time.Duration, error) {
	return parseDuration("session.thinking_delay", c.Session.ThinkingDelay)
}

// BrokerList splits EventStream.Brokers, dropping empty items.
func (c *Config) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.EventStream.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid value for %s: must not be negative", key)
	}
	return d, nil
}

// validEventStreamProviders are the accepted eventstream.provider values.
var validEventStreamProviders = []string{"nop", "kafka"}

func setEventStreamProvider(c *Config, v string) error {
	for _, p := range validEventStreamProviders {
		if v == p {
			c.EventStream.Provider = v
			return nil
		}
	}
	return fmt.Errorf("invalid value for eventstream.provider: %q (available: %s)",
		v, strings.Join(validEventStreamProviders, ", "))
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"completion.target": {
		get: func(c *Config) string { return c.Completion.Target },
		set: func(c *Config, v string) error { c.Completion.Target = v; return nil },
	},
	"completion.timeout": {
		get: func(c *Config) string { return c.Completion.Timeout },
		set: func(c *Config, v string) error {
			if _, err := parseDuration("completion.timeout", v); err != nil {
				return err
			}
			c.Completion.Timeout = v
			return nil
		},
	},
	"session.thinking_delay": {
		get: func(c *Config) string { return c.Session.ThinkingDelay },
		set: func(c *Config, v string) error {
			if _, err := parseDuration("session.thinking_delay", v); err != nil {
				return err
			}
			c.Session.ThinkingDelay = v
			return nil
		},
	},
	"session.placeholder": {
		get: func(c *Config) string { return c.Session.Placeholder },
		set: func(c *Config, v string) error { c.Session.Placeholder = v; return nil },
	},
	"session.apology": {
		get: func(c *Config) string { return c.Session.Apology },
		set: func(c *Config, v string) error { c.Session.Apology = v; return nil },
	},
	"session.farewell": {
		get: func(c *Config) string { return c.Session.Farewell },
		set: func(c *Config, v string) error { c.Session.Farewell = v; return nil },
	},
	"eventstream.provider": {
		get: func(c *Config) string { return c.EventStream.Provider },
		set: setEventStreamProvider,
	},
	"eventstream.brokers": {
		get: func(c *Config) string { return c.EventStream.Brokers },
		set: func(c *Config, v string) error { c.EventStream.Brokers = v; return nil },
	},
	"eventstream.topic": {
		get: func(c *Config) string { return c.EventStream.Topic },
		set: func(c *Config, v string) error { c.EventStream.Topic = v; return nil },
	},
}
