package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RakhimovY/AIChat/pkg/llm"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// scriptedProvider fails a fixed number of times before answering.
type scriptedProvider struct {
	failures int
	calls    int
	answer   string
	lastMsgs []llm.Message
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	p.lastMsgs = history
	if p.calls <= p.failures {
		return "", errors.New("model unavailable")
	}
	return p.answer, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
}

func newTestInvoker(p llm.LLMProvider) *Invoker {
	iv := NewInvoker(p, nopLogger{})
	iv.backoffBase = time.Millisecond
	return iv
}

func TestInvokeFirstAttemptSucceeds(t *testing.T) {
	provider := &scriptedProvider{answer: "ответ"}
	iv := newTestInvoker(provider)

	got, ok := iv.Invoke(context.Background(), nil, "вопрос", "ru")
	if !ok {
		t.Fatal("expected a model answer")
	}
	if got != "ответ" {
		t.Errorf("got %q", got)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 call, got %d", provider.calls)
	}
}

func TestInvokeRetriesThenSucceeds(t *testing.T) {
	provider := &scriptedProvider{failures: 2, answer: "ответ"}
	iv := newTestInvoker(provider)

	got, ok := iv.Invoke(context.Background(), nil, "вопрос", "ru")
	if !ok {
		t.Fatal("expected the third attempt to succeed")
	}
	if got != "ответ" {
		t.Errorf("got %q", got)
	}
	if provider.calls != 3 {
		t.Errorf("expected 3 calls, got %d", provider.calls)
	}
}

func TestInvokeExhaustionReturnsLocalizedFallback(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"ru", "Произошла ошибка при обработке вашего запроса. Пожалуйста, попробуйте еще раз позже."},
		{"kk", "Сұрауыңызды өңдеу кезінде қате орын алды. Кейінірек қайталап көріңіз."},
		{"en", "An error occurred while processing your request. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			provider := &scriptedProvider{failures: 10}
			iv := newTestInvoker(provider)

			got, ok := iv.Invoke(context.Background(), nil, "вопрос", tt.language)
			if ok {
				t.Fatal("exhausted retries must report ok=false")
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if provider.calls != maxAttempts {
				t.Errorf("expected %d attempts, got %d", maxAttempts, provider.calls)
			}
		})
	}
}

func TestInvokeAppendsPromptToHistory(t *testing.T) {
	provider := &scriptedProvider{answer: "ок"}
	iv := newTestInvoker(provider)

	history := []llm.Message{
		{Role: "user", Content: "первый вопрос"},
		{Role: "assistant", Content: "первый ответ"},
	}
	iv.Invoke(context.Background(), history, "второй вопрос", "ru")

	if len(provider.lastMsgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(provider.lastMsgs))
	}
	last := provider.lastMsgs[2]
	if last.Role != "user" || last.Content != "второй вопрос" {
		t.Errorf("prompt must be the final user message, got %+v", last)
	}
}

func TestInvokeCancelledContextDuringBackoff(t *testing.T) {
	provider := &scriptedProvider{failures: 10}
	iv := NewInvoker(provider, nopLogger{})
	iv.backoffBase = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	got, ok := iv.Invoke(ctx, nil, "вопрос", "en")
	if ok {
		t.Fatal("cancelled invoke must report ok=false")
	}
	if got == "" {
		t.Error("fallback text must still be returned")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancellation must interrupt the backoff wait")
	}
}
