package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/RakhimovY/AIChat/internal/localization"
	"github.com/RakhimovY/AIChat/internal/pkg/logger"
	"github.com/RakhimovY/AIChat/pkg/llm"
)

const (
	maxAttempts    = 3
	defaultBackoff = time.Second
)

// Invoker calls the model with bounded retries. Invoke never returns an error:
// after the last failed attempt the caller gets a localized error text, so the
// conversation always produces an assistant message.
type Invoker struct {
	provider llm.LLMProvider
	logger   logger.ILogger

	// backoffBase is the first retry delay, doubled per attempt. Overridable
	// in tests.
	backoffBase time.Duration
}

func NewInvoker(provider llm.LLMProvider, log logger.ILogger) *Invoker {
	return &Invoker{
		provider:    provider,
		logger:      log,
		backoffBase: defaultBackoff,
	}
}

// Invoke sends the conversation window plus the assembled prompt to the
// model. The bool result reports whether the text is a real model answer
// (true) or the localized fallback (false).
func (iv *Invoker) Invoke(ctx context.Context, history []llm.Message, prompt, language string) (string, bool) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: prompt})

	var lastErr error

	backoff := iv.backoffBase
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			iv.logger.Info("Invoker", fmt.Sprintf("Retry attempt %d", attempt), nil)
		}

		content, err := iv.provider.Chat(ctx, messages)
		if err == nil {
			return content, true
		}

		lastErr = err
		iv.logger.Error("Invoker", fmt.Sprintf("AI call failed (attempt %d)", attempt+1), map[string]interface{}{"error": err.Error()})

		if attempt == maxAttempts-1 {
			break
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			iv.logger.Error("Invoker", "Context cancelled during backoff", map[string]interface{}{"error": ctx.Err().Error()})
			return localization.ErrorMessage(language), false
		}
		backoff *= 2
	}

	iv.logger.Error("Invoker", "All retry attempts failed", map[string]interface{}{"error": lastErr.Error()})
	return localization.ErrorMessage(language), false
}
