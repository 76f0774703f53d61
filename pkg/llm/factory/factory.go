package factory

import (
	"fmt"

	"edugen-be/pkg/llm"
	"edugen-be/pkg/llm/gemini"
	"edugen-be/pkg/llm/ollama"
	"edugen-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		return openai.NewOpenAIProvider(baseURL, apiKey, modelName), nil
	case "gemini":
		return gemini.NewGeminiProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
