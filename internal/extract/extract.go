// Package extract asks a chat-completions model to decompose a dish name
// into a grocery ingredient list.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lexia-ai/sous/internal/log"
)

// ErrMissingAPIKey indicates the request carried no OpenAI API key.
var ErrMissingAPIKey = errors.New("openai api key is missing or empty")

// ErrEmptyResponse indicates the model returned no choices.
var ErrEmptyResponse = errors.New("no response from model")

// systemPrompt instructs the model to answer with a bare JSON array.
const systemPrompt = "You are a culinary assistant. When the user mentions a dish, " +
	"extract a concise list of core grocery ingredients needed to make it. " +
	"Respond ONLY with a valid JSON array of strings in Spanish where appropriate, " +
	"no extra text. Keep common items simple (e.g., 'huevos', 'patatas', 'cebolla', " +
	"'aceite de oliva', 'sal')."

const maxTokens = 300

// Extractor performs ingredient extraction calls.
// A new API client is built per call because keys arrive with each request.
type Extractor struct {
	baseURL string
	logger  log.Logger
}

// New creates an Extractor. baseURL overrides the API endpoint for tests and
// OpenAI-compatible gateways; empty means the library default.
func New(baseURL string, logger log.Logger) *Extractor {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Extractor{baseURL: baseURL, logger: logger}
}

// Ingredients asks the model which ingredients the dish needs.
// Returns the normalized list; an empty slice means the model could not
// identify ingredients (not an error).
func (e *Extractor) Ingredients(ctx context.Context, apiKey, model, dish string) ([]string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := openai.DefaultConfig(apiKey)
	if e.baseURL != "" {
		cfg.BaseURL = e.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	e.logger.Info("asking model for ingredients", "model", model)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: dish},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return ParseIngredients(resp.Choices[0].Message.Content), nil
}
