package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crossletters/internal/config"
)

// Assistant performs the best-effort language-model calls: word definitions
// and crossword-style game titles. Both are decorative; callers must treat
// every error as "no answer", never as a reason to block a move.
type Assistant struct {
	cfg config.Config
}

func newAssistant(cfg config.Config) *Assistant {
	return &Assistant{cfg: cfg}
}

type openAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Definition returns a one-sentence dictionary definition of the word.
func (a *Assistant) Definition(ctx context.Context, word string) (string, error) {
	prompt := fmt.Sprintf("Give a one-sentence dictionary definition of the word %q. Reply with the definition only.", strings.ToUpper(word))
	return a.complete(ctx, "You are a concise dictionary.", prompt, 120)
}

// Title suggests a short title for a finished game from the words played.
func (a *Assistant) Title(ctx context.Context, words []string) (string, error) {
	if len(words) == 0 {
		return "", errors.New("no words to title")
	}
	prompt := fmt.Sprintf("Suggest a short, playful crossword-puzzle title inspired by these words: %s. Reply with the title only.", strings.Join(words, ", "))
	title, err := a.complete(ctx, "You name crossword puzzles.", prompt, 60)
	if err != nil {
		return "", err
	}
	return strings.Trim(title, `"`), nil
}

func (a *Assistant) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if strings.TrimSpace(a.cfg.OpenAIAPIKey) == "" {
		return "", errors.New("OpenAI API key is not configured")
	}

	reqBody := openAIChatRequest{
		Model: a.cfg.OpenAIModel,
		Messages: []openAIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to build OpenAI request")
	}

	reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build OpenAI request")
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(a.cfg.OpenAIAPIKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach OpenAI")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OpenAI response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("OpenAI request failed (%d)", resp.StatusCode)
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI response")
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", fmt.Errorf("OpenAI error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("OpenAI returned no choices")
	}
	answer := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if answer == "" {
		return "", errors.New("OpenAI returned an empty answer")
	}
	return answer, nil
}
