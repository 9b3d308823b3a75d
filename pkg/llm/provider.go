package llm

import "context"

// Message is one turn of a conversation in provider-neutral form. Role is
// "user", "assistant" or "system".
type Message struct {
	Role    string
	Content string
}

type Options struct {
	Temperature float64
	MaxTokens   int
	// Model overrides the provider's configured default.
	Model string
}

type Option func(*Options)

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider is the contract every model backend implements.
type LLMProvider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate is the single-prompt convenience over Chat.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
