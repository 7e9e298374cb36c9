package ai

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAI is a chat-completions backend. It serves both the remote API
// and any OpenAI-compatible local server (ollama, llama.cpp server) by
// pointing BaseURL at it.
type OpenAI struct {
	client openai.Client
	model  string
	name   string
}

type OpenAIConfig struct {
	Name       string // backend label ("remote", "local")
	APIKey     string
	BaseURL    string       // empty = api.openai.com
	Model      string       // e.g. "gpt-5-nano" or a local model tag
	HTTPClient *http.Client // optional, e.g. SOCKS-proxied
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	name := cfg.Name
	if name == "" {
		name = "openai"
	}
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		name:   name,
	}
}

func (o *OpenAI) Name() string { return o.name }

func (o *OpenAI) Ask(ctx context.Context, req Request) (Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages: messages(req),
		Model:    openai.ChatModel(o.model),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("no choices in response")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return Response{}, fmt.Errorf("empty message content")
	}
	return Response{Text: content, Backend: o.name}, nil
}

func messages(req Request) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))
	return msgs
}
