package config

const (
	defaultCompletionTarget = "http://localhost:1187/completion"

	defaultThinkingDelay = "900ms"
	defaultPlaceholder   = "Thinking..."
	defaultApology       = "Oops! Something went wrong. Please try again!"
	defaultFarewell      = "Thanks for using our Chatbot!"

	defaultEventStreamProvider = "nop"
	defaultEventStreamBrokers  = "localhost:9092"
	defaultEventStreamTopic    = "chatbox.turns"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Completion: CompletionConfig{
			Target: defaultCompletionTarget,
		},
		Session: SessionConfig{
			ThinkingDelay: defaultThinkingDelay,
			Placeholder:   defaultPlaceholder,
			Apology:       defaultApology,
			Farewell:      defaultFarewell,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Brokers:  defaultEventStreamBrokers,
			Topic:    defaultEventStreamTopic,
		},
	}
}
