package classifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sie-tools/eeat-mentions/internal/resilience/circuitbreaker"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIClassifier asks an OpenAI chat model for the label
type OpenAIClassifier struct {
	client  *openai.Client
	model   string
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
}

var _ Classifier = (*OpenAIClassifier)(nil)

// NewOpenAIClassifier creates a classifier; baseURL may be empty for the public API
func NewOpenAIClassifier(apiKey, model, baseURL string) *OpenAIClassifier {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIClassifier{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		breaker: circuitbreaker.New(circuitbreaker.LLMConfig("openai-api")),
		timeout: 30 * time.Second,
	}
}

func (o *OpenAIClassifier) Name() string {
	return "openai"
}

func (o *OpenAIClassifier) Classify(ctx context.Context, snippet, referenceText string) (models.AccuracyLabel, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	result, err := o.breaker.Execute(func() (interface{}, error) {
		return o.complete(ctx, buildPrompt(snippet, referenceText))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			logrus.WithField("circuit", o.breaker.Name()).Warn("OpenAI circuit breaker open, request rejected")
		}
		return "", fmt.Errorf("openai classification failed: %w", err)
	}

	return parseLabel(result.(string))
}

func (o *OpenAIClassifier) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   5,
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
