package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClassifier is a mock implementation of Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Name() string {
	return "mock"
}

func (m *MockClassifier) Classify(ctx context.Context, snippet, referenceText string) (models.AccuracyLabel, error) {
	args := m.Called(ctx, snippet, referenceText)
	return args.Get(0).(models.AccuracyLabel), args.Error(1)
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		answer   string
		expected models.AccuracyLabel
		wantErr  bool
	}{
		{answer: "Correct", expected: models.LabelCorrect},
		{answer: "  correct.\n", expected: models.LabelCorrect},
		{answer: "Uncertain", expected: models.LabelUncertain},
		{answer: "UNCERTAIN", expected: models.LabelUncertain},
		{answer: "Incorrect", expected: models.LabelUncertain},
		{answer: "not correct", expected: models.LabelUncertain},
		{answer: "This is not correct.", expected: models.LabelUncertain},
		{answer: "It isn't correct", expected: models.LabelUncertain},
		{answer: "Correctness unclear", wantErr: true},
		{answer: "I cannot tell", wantErr: true},
		{answer: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			label, err := parseLabel(tt.answer)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnparseableLabel))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, label)
		})
	}
}

func TestBuildPrompt_TruncatesOnRuneBoundary(t *testing.T) {
	snippet := strings.Repeat("過", maxSnippetChars+10)
	prompt := buildPrompt(snippet, "official")

	assert.Contains(t, prompt, "official")
	assert.Contains(t, prompt, strings.Repeat("過", maxSnippetChars))
	assert.NotContains(t, prompt, strings.Repeat("過", maxSnippetChars+1))
}

func TestKeywordClassifier(t *testing.T) {
	classifier := NewKeywordClassifier(nil)
	assert.Equal(t, "keyword", classifier.Name())

	tests := []struct {
		name     string
		snippet  string
		expected models.AccuracyLabel
	}{
		{name: "overheating report", snippet: "About 5% of users reported OVERHEATING issues", expected: models.LabelUncertain},
		{name: "chinese negative keyword", snippet: "我的產品B用了一週，感覺電池續航力沒有想像中好", expected: models.LabelUncertain},
		{name: "share price drop", snippet: "股價今日收盤時下跌 0.5%", expected: models.LabelUncertain},
		{name: "positive coverage", snippet: "Brand A named best employer", expected: models.LabelCorrect},
		{name: "empty snippet", snippet: "", expected: models.LabelCorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := classifier.Classify(context.Background(), tt.snippet, "official info")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, label)
		})
	}
}

func TestKeywordClassifier_CustomKeywords(t *testing.T) {
	classifier := NewKeywordClassifier([]string{" Delay ", ""})

	label, err := classifier.Classify(context.Background(), "Shipping delay announced", "")
	require.NoError(t, err)
	assert.Equal(t, models.LabelUncertain, label)

	label, err = classifier.Classify(context.Background(), "reports of overheating", "")
	require.NoError(t, err)
	assert.Equal(t, models.LabelCorrect, label)
}

func TestVaderClassifier(t *testing.T) {
	classifier := NewVaderClassifier(0)

	label, err := classifier.Classify(context.Background(), "This product is terrible and awful, I hate it.", "")
	require.NoError(t, err)
	assert.Equal(t, models.LabelUncertain, label)

	label, err = classifier.Classify(context.Background(), "I love it, **great** value and a wonderful design!", "")
	require.NoError(t, err)
	assert.Equal(t, models.LabelCorrect, label)

	label, err = classifier.Classify(context.Background(), "The launch event is on Tuesday.", "")
	require.NoError(t, err)
	assert.Equal(t, models.LabelCorrect, label)
}

func TestPlainText(t *testing.T) {
	input := "**Great** [review](https://example.com/review) see https://example.com/more"
	assert.Equal(t, "Great review see", PlainText(input))
}

func TestFallback(t *testing.T) {
	t.Run("primary succeeds", func(t *testing.T) {
		primary := new(MockClassifier)
		secondary := new(MockClassifier)
		primary.On("Classify", mock.Anything, "snippet", "ref").Return(models.LabelUncertain, nil)

		failures := 0
		fb := NewFallback(primary, secondary, func(error) { failures++ })

		label, err := fb.Classify(context.Background(), "snippet", "ref")
		require.NoError(t, err)
		assert.Equal(t, models.LabelUncertain, label)
		assert.Equal(t, 0, failures)
		secondary.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("primary fails", func(t *testing.T) {
		primary := new(MockClassifier)
		primary.On("Classify", mock.Anything, "the battery is overheating", "ref").
			Return(models.AccuracyLabel(""), errors.New("quota exceeded"))

		var reported error
		fb := NewFallback(primary, NewKeywordClassifier(nil), func(err error) { reported = err })

		label, err := fb.Classify(context.Background(), "the battery is overheating", "ref")
		require.NoError(t, err)
		assert.Equal(t, models.LabelUncertain, label)
		assert.EqualError(t, reported, "quota exceeded")
		primary.AssertExpectations(t)
	})

	t.Run("primary returns an unknown label", func(t *testing.T) {
		primary := new(MockClassifier)
		primary.On("Classify", mock.Anything, mock.Anything, mock.Anything).Return(models.AccuracyLabel("Maybe"), nil)

		var reported error
		fb := NewFallback(primary, NewKeywordClassifier(nil), func(err error) { reported = err })

		label, err := fb.Classify(context.Background(), "fine", "ref")
		require.NoError(t, err)
		assert.Equal(t, models.LabelCorrect, label)
		assert.True(t, errors.Is(reported, ErrUnparseableLabel))
		assert.Equal(t, "mock+keyword", fb.Name())
	})
}

func TestOpenAIClassifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.Contains(t, req.Messages[0].Content, "reports of overheating")
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","model":"gpt-test",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Uncertain"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	classifier := NewOpenAIClassifier("test-key", "gpt-test", server.URL+"/v1")
	assert.Equal(t, "openai", classifier.Name())

	label, err := classifier.Classify(context.Background(), "reports of overheating", "official info")
	require.NoError(t, err)
	assert.Equal(t, models.LabelUncertain, label)
}

func TestOpenAIClassifier_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer server.Close()

	classifier := NewOpenAIClassifier("test-key", "gpt-test", server.URL+"/v1")

	_, err := classifier.Classify(context.Background(), "snippet", "official info")
	assert.Error(t, err)
}

func TestAnthropicClassifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"Correct"}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":1}}`)
	}))
	defer server.Close()

	classifier := NewAnthropicClassifier("test-key", "claude-test",
		option.WithBaseURL(server.URL), option.WithMaxRetries(0))
	assert.Equal(t, "anthropic", classifier.Name())

	label, err := classifier.Classify(context.Background(), "Brand A named best employer", "official info")
	require.NoError(t, err)
	assert.Equal(t, models.LabelCorrect, label)
}

func TestAnthropicClassifier_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)
	}))
	defer server.Close()

	classifier := NewAnthropicClassifier("test-key", "claude-test",
		option.WithBaseURL(server.URL), option.WithMaxRetries(0))

	_, err := classifier.Classify(context.Background(), "snippet", "official info")
	assert.Error(t, err)
}
