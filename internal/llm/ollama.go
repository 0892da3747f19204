package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaHost = "http://localhost:11434"

// OllamaProvider talks to a local Ollama daemon through /api/chat.
type OllamaProvider struct {
	host       string
	model      string
	httpClient *http.Client
}

func NewOllamaProvider(host, model string) *OllamaProvider {
	if host == "" {
		host = defaultOllamaHost
	}
	return &OllamaProvider{
		host:  strings.TrimSuffix(host, "/"),
		model: model,
		// Local models can take minutes on a full deck.
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (o *OllamaProvider) Name() string {
	return "ollama"
}

// Ping lists installed models, which fails fast when the daemon is down.
func (o *OllamaProvider) Ping(ctx context.Context) error {
	resp, err := o.do(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return fmt.Errorf("cannot reach Ollama at %s: %w", o.host, err)
	}
	resp.Body.Close()
	return nil
}

type ollamaChat struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaReply struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	DoneReason      string        `json:"done_reason,omitempty"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

// Complete sends one non-streaming chat turn. JSONMode maps to Ollama's
// "format": "json", which constrains the model to a single JSON value.
func (o *OllamaProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	chat := ollamaChat{
		Model:    o.model,
		Messages: make([]ollamaMessage, 0, len(req.Messages)),
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}
	if req.Model != "" {
		chat.Model = req.Model
	}
	for _, m := range req.Messages {
		chat.Messages = append(chat.Messages, ollamaMessage{Role: m.Role, Content: m.Content})
	}
	if req.JSONMode {
		chat.Format = "json"
	}

	body, err := json.Marshal(chat)
	if err != nil {
		return nil, err
	}
	resp, err := o.do(ctx, http.MethodPost, "/api/chat", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reply ollamaReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode ollama reply: %w", err)
	}
	return &CompletionResponse{
		Content:      reply.Message.Content,
		Model:        reply.Model,
		FinishReason: reply.DoneReason,
		Usage: Usage{
			PromptTokens:     reply.PromptEvalCount,
			CompletionTokens: reply.EvalCount,
			TotalTokens:      reply.PromptEvalCount + reply.EvalCount,
		},
	}, nil
}

// do issues a request and turns any non-200 status into a StatusError.
func (o *OllamaProvider) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, o.host+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{Provider: "ollama", Status: resp.StatusCode, Body: string(msg)}
	}
	return resp, nil
}
