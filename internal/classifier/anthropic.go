package classifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sie-tools/eeat-mentions/internal/resilience/circuitbreaker"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const defaultAnthropicModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// AnthropicClassifier asks a Claude model for the label
type AnthropicClassifier struct {
	client  anthropic.Client
	model   string
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
}

var _ Classifier = (*AnthropicClassifier)(nil)

// NewAnthropicClassifier creates a classifier. Extra request options (base URL, retries) are passed to the client.
func NewAnthropicClassifier(apiKey, model string, opts ...option.RequestOption) *AnthropicClassifier {
	if model == "" {
		model = defaultAnthropicModel
	}

	return &AnthropicClassifier{
		client:  anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		model:   model,
		breaker: circuitbreaker.New(circuitbreaker.LLMConfig("claude-api")),
		timeout: 30 * time.Second,
	}
}

func (a *AnthropicClassifier) Name() string {
	return "anthropic"
}

func (a *AnthropicClassifier) Classify(ctx context.Context, snippet, referenceText string) (models.AccuracyLabel, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := a.breaker.Execute(func() (interface{}, error) {
		return a.complete(ctx, buildPrompt(snippet, referenceText))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			logrus.WithField("circuit", a.breaker.Name()).Warn("Claude circuit breaker open, request rejected")
		}
		return "", fmt.Errorf("claude classification failed: %w", err)
	}

	return parseLabel(result.(string))
}

func (a *AnthropicClassifier) complete(ctx context.Context, prompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 10,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude returned empty content")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude returned non-text content")
	}
	return textBlock.Text, nil
}
