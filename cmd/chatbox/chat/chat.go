// Package chatcmder provides the chat command, an interactive chat session
// against a text completion service.
package chatcmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/papercomputeco/chatbox/pkg/chat"
	"github.com/papercomputeco/chatbox/pkg/completion"
	"github.com/papercomputeco/chatbox/pkg/config"
	"github.com/papercomputeco/chatbox/pkg/dotdir"
	eventstreamutils "github.com/papercomputeco/chatbox/pkg/eventstream/utils"
	"github.com/papercomputeco/chatbox/pkg/eventstream/worker"
	"github.com/papercomputeco/chatbox/pkg/logger"
)

const logFileName = "chatbox.log"

type chatCommander struct {
	target        string
	timeout       string
	thinkingDelay string
	provider      string
	brokers       string
	topic         string

	plain     bool
	debug     bool
	configDir string

	cfg    *config.Config
	logger *zap.Logger
}

const chatLongDesc string = `Start an interactive chat session.

Each message is sent to the completion service as the raw body of a POST
request. A "Thinking..." placeholder appears while the request is in flight
and is replaced by the completion, or by an apology if the request fails.

On a terminal the session runs as a full screen chat surface; press Esc or
type /exit to end it. Use --plain (or pipe stdin) for a line-by-line session
that ends on /exit or Ctrl+D.

Settled turns can optionally be published to Kafka with
--eventstream-provider kafka.

Examples:
  chatbox chat
  chatbox chat --target http://localhost:1187/completion
  chatbox chat --plain --timeout 30s
  echo "What is Go?" | chatbox chat`

const chatShortDesc string = "Interactive chat with a completion service"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.SessionFlags, config.SessionFlagKeys)

			cmder.cfg, err = config.FromViper(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	config.AddStringFlag(cmd, config.SessionFlags, config.FlagTarget, &cmder.target)
	config.AddStringFlag(cmd, config.SessionFlags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, config.SessionFlags, config.FlagThinkingDelay, &cmder.thinkingDelay)
	config.AddStringFlag(cmd, config.SessionFlags, config.FlagEventStreamProv, &cmder.provider)
	config.AddStringFlag(cmd, config.SessionFlags, config.FlagEventStreamBrokers, &cmder.brokers)
	config.AddStringFlag(cmd, config.SessionFlags, config.FlagEventStreamTopic, &cmder.topic)
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Use the line-by-line session instead of the full screen surface")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tui := !c.plain && isTerminal(in) && isTerminal(out)

	var closeLog func() error
	if tui {
		var err error
		c.logger, closeLog, err = logger.NewFileLogger(c.debug, c.logPath())
		if err != nil {
			return err
		}
	} else {
		c.logger = logger.NewLoggerWithWriters(c.debug, os.Stderr)
		closeLog = c.logger.Sync
	}
	defer func() { _ = closeLog() }()

	pool, err := c.newPublishPool()
	if err != nil {
		return err
	}
	defer func() {
		if err := pool.Close(); err != nil {
			c.logger.Error("closing event publisher", zap.Error(err))
		}
	}()

	timeout, err := c.cfg.CompletionTimeout()
	if err != nil {
		return err
	}
	client := completion.NewClient(c.cfg.Completion.Target,
		completion.WithTimeout(timeout),
		completion.WithLogger(c.logger),
	)

	opts, err := c.sessionOptions()
	if err != nil {
		return err
	}
	opts = append(opts, chat.WithObserver(&turnPublisher{pool: pool, endpoint: client.Target()}))

	c.logger.Debug("starting chat session",
		zap.String("target", client.Target()),
		zap.Bool("tui", tui),
		zap.String("eventstream_provider", c.cfg.EventStream.Provider),
	)

	if tui {
		s := newSurface()
		session, err := chat.New(client, s.handles(), opts...)
		if err != nil {
			return err
		}
		return runChatTUI(ctx, session, s)
	}

	host := newPlainHost(out, !isTerminal(in))
	session, err := chat.New(client, host.handles(), opts...)
	if err != nil {
		return err
	}
	return runPlain(in, out, session)
}

func (c *chatCommander) sessionOptions() ([]chat.Option, error) {
	delay, err := c.cfg.ThinkingDelay()
	if err != nil {
		return nil, err
	}

	return []chat.Option{
		chat.WithLogger(c.logger),
		chat.WithThinkingDelay(delay),
		chat.WithPlaceholder(c.cfg.Session.Placeholder),
		chat.WithApology(c.cfg.Session.Apology),
		chat.WithFarewell(c.cfg.Session.Farewell),
	}, nil
}

func (c *chatCommander) newPublishPool() (*worker.Pool, error) {
	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: c.cfg.EventStream.Provider,
		Brokers:      c.cfg.BrokerList(),
		Topic:        c.cfg.EventStream.Topic,
		Logger:       c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating event publisher: %w", err)
	}

	return worker.NewPool(&worker.Config{
		Publisher: publisher,
		Logger:    c.logger,
	})
}

// logPath places the log next to the config file, or in the temp dir when
// no .chatbox/ directory exists.
func (c *chatCommander) logPath() string {
	dir, err := dotdir.NewManager().Target(c.configDir)
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, logFileName)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
