package assist

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"shopsearch-base/pkg/models"
	"shopsearch-base/pkg/search"
)

const refinePrompt = "You turn natural-language shopping requests into short marketplace search queries. " +
	"Reply with the search query only, no quotes, no explanation."

// Assistant rewrites a free-form shopping request into a search query with an
// LLM, then runs the combined search with it.
type Assistant struct {
	client     *openai.Client
	aggregator *search.Aggregator
}

func New(apiKey string, aggregator *search.Aggregator) *Assistant {
	a := &Assistant{aggregator: aggregator}
	if apiKey != "" {
		a.client = openai.NewClient(apiKey)
	}
	return a
}

// Result is the combined search result plus the query the model produced.
type Result struct {
	RefinedQuery string `json:"refinedQuery"`
	models.SearchResult
}

func (a *Assistant) Search(ctx context.Context, request string) (*Result, error) {
	refined, err := a.Refine(ctx, request)
	if err != nil {
		return nil, err
	}

	combined, err := a.aggregator.Combined(ctx, refined)
	if err != nil {
		return nil, err
	}

	return &Result{RefinedQuery: refined, SearchResult: *combined}, nil
}

// Refine asks the model for a compact search query. Falls back to the raw
// request when the model returns nothing usable.
func (a *Assistant) Refine(ctx context.Context, request string) (string, error) {
	if a.client == nil {
		return "", &models.ConfigError{Key: "OPENAI_API_KEY"}
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: refinePrompt},
			{Role: openai.ChatMessageRoleUser, Content: request},
		},
	})
	if err != nil {
		return "", &models.UpstreamError{Provider: "openai", Message: err.Error()}
	}

	if len(resp.Choices) == 0 {
		return request, nil
	}
	refined := strings.TrimSpace(resp.Choices[0].Message.Content)
	if refined == "" {
		return request, nil
	}
	return refined, nil
}
