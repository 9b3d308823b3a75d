package factory

import (
	"fmt"

	"github.com/RakhimovY/AIChat/pkg/llm"
	"github.com/RakhimovY/AIChat/pkg/llm/huggingface"
	"github.com/RakhimovY/AIChat/pkg/llm/ollama"
	"github.com/RakhimovY/AIChat/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		return openai.NewOpenAIProvider(apiKey, modelName, baseURL), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
