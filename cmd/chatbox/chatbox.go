// Package chatboxcmder
package chatboxcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/chatbox/cmd/chatbox/chat"
	configcmder "github.com/papercomputeco/chatbox/cmd/chatbox/config"
	versioncmder "github.com/papercomputeco/chatbox/cmd/version"
)

const chatboxLongDesc string = `Chatbox is a terminal chat client for a text completion service.

Start a session using:
  chatbox chat             Chat on the full screen surface
  chatbox chat --plain     Chat line by line

Configuration lives in .chatbox/config.toml:
  chatbox config list      Show the effective configuration`

const chatboxShortDesc string = "Chatbox - terminal chat for completion services"

func NewChatboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "chatbox",
		Short:         chatboxShortDesc,
		Long:          chatboxLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the .chatbox/ config directory")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
