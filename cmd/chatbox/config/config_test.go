package configcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	configcmder "github.com/papercomputeco/chatbox/cmd/chatbox/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var configDir string

	BeforeEach(func() {
		configDir = filepath.Join(GinkgoT().TempDir(), ".chatbox")
	})

	// execute runs the config command the way the root command would, with
	// the persistent config-dir flag pointing at a temp directory.
	execute := func(args ...string) (string, error) {
		root := &cobra.Command{Use: "chatbox"}
		root.PersistentFlags().String("config-dir", configDir, "")
		root.AddCommand(configcmder.NewConfigCmd())

		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(append([]string{"config"}, args...))
		err := root.Execute()
		return out.String(), err
	}

	Describe("set subcommand", func() {
		It("sets a config value successfully", func() {
			out, err := execute("set", "completion.target", "http://localhost:9999/completion")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("completion.target"))

			// Verify the config file was created
			_, err = os.Stat(filepath.Join(configDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects unknown keys", func() {
			_, err := execute("set", "proxy.provider", "value")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("requires exactly two arguments", func() {
			_, err := execute("set", "completion.target")
			Expect(err).To(HaveOccurred())
		})

		It("rejects zero arguments", func() {
			_, err := execute("set")
			Expect(err).To(HaveOccurred())
		})

		It("rejects invalid durations", func() {
			_, err := execute("set", "session.thinking_delay", "not-a-duration")
			Expect(err).To(MatchError(ContainSubstring("session.thinking_delay")))

			_, err = os.Stat(filepath.Join(configDir, "config.toml"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("rejects unknown eventstream providers", func() {
			_, err := execute("set", "eventstream.provider", "nats")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			_, err := execute("set", "session.apology", "sorry!")
			Expect(err).NotTo(HaveOccurred())

			out, err := execute("get", "session.apology")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("sorry!"))
		})

		It("shows defaults for unset keys", func() {
			out, err := execute("get", "session.placeholder")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Thinking..."))
		})

		It("shows <not set> for keys without a default", func() {
			out, err := execute("get", "completion.timeout")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("<not set>"))
		})

		It("rejects unknown keys", func() {
			_, err := execute("get", "invalid_key")
			Expect(err).To(HaveOccurred())
		})

		It("requires exactly one argument", func() {
			_, err := execute("get")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("list subcommand", func() {
		It("lists every key", func() {
			out, err := execute("list")
			Expect(err).NotTo(HaveOccurred())
			for _, key := range []string{"completion.target", "session.farewell", "eventstream.topic"} {
				Expect(out).To(ContainSubstring(key))
			}
		})

		It("shows values that were set", func() {
			_, err := execute("set", "eventstream.topic", "chat.events")
			Expect(err).NotTo(HaveOccurred())

			out, err := execute("list")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring(`"chat.events"`))
		})

		It("rejects any arguments", func() {
			_, err := execute("list", "extra")
			Expect(err).To(HaveOccurred())
		})
	})
})
