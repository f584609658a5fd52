// Package configcmder provides the config command for managing persistent
// chatbox configuration stored in the .chatbox/ directory.
package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatbox/pkg/config"
)

const configLongDesc string = `Manage persistent chatbox configuration.

Configuration is stored as config.toml in the .chatbox/ directory and provides
default values for command flags. CLI flags and CHATBOX_ environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  completion.target, completion.timeout,
  session.thinking_delay, session.placeholder, session.apology, session.farewell,
  eventstream.provider, eventstream.brokers, eventstream.topic

Use subcommands to get, set, or list configuration values:
  chatbox config set <key> <value>    Set a configuration value
  chatbox config get <key>            Get a configuration value
  chatbox config list                 List all configuration values

Examples:
  chatbox config set completion.target http://localhost:1187/completion
  chatbox config set session.thinking_delay 500ms
  chatbox config get completion.target
  chatbox config list`

const configShortDesc string = "Manage persistent chatbox configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func validateKey(key string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}
	return nil
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
