package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline.
type Flag struct {
	// Name is the long flag name (e.g. "target").
	Name string

	// Shorthand is the one-letter short flag (e.g. "t"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "completion.target").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag and BindRegisteredFlags
// to avoid typos or drift from one command to another.
const (
	FlagTarget             = "target"
	FlagTimeout            = "timeout"
	FlagThinkingDelay      = "thinking-delay"
	FlagEventStreamProv    = "eventstream-provider"
	FlagEventStreamBrokers = "eventstream-brokers"
	FlagEventStreamTopic   = "eventstream-topic"
)

// SessionFlags are the flags shared by commands that run a chat session.
var SessionFlags = FlagSet{
	FlagTarget:             {Name: "target", Shorthand: "t", ViperKey: "completion.target", Description: "Completion service URL"},
	FlagTimeout:            {Name: "timeout", ViperKey: "completion.timeout", Description: "Per-request timeout, e.g. 2m (default: none)"},
	FlagThinkingDelay:      {Name: "thinking-delay", ViperKey: "session.thinking_delay", Description: "Delay before the placeholder reply appears"},
	FlagEventStreamProv:    {Name: "eventstream-provider", ViperKey: "eventstream.provider", Description: "Settled-turn event publisher (nop, kafka)"},
	FlagEventStreamBrokers: {Name: "eventstream-brokers", ViperKey: "eventstream.brokers", Description: "Comma separated Kafka brokers"},
	FlagEventStreamTopic:   {Name: "eventstream-topic", ViperKey: "eventstream.topic", Description: "Kafka topic for settled-turn events"},
}

// SessionFlagKeys lists every registry key in SessionFlags.
var SessionFlagKeys = []string{
	FlagTarget,
	FlagTimeout,
	FlagThinkingDelay,
	FlagEventStreamProv,
	FlagEventStreamBrokers,
	FlagEventStreamTopic,
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}
