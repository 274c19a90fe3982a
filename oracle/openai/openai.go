// Package openai implements the recommendation oracle over an
// OpenAI-compatible chat completions endpoint in JSON response mode.
//
// Importing the package registers the "openai" provider with the oracle
// registry.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/tailored-agentic-units/supra/oracle"
)

// ProviderName is the registry name of this provider.
const ProviderName = "openai"

const defaultModel = "gpt-4o-mini"

// ErrMissingAPIKey is returned when neither an API key nor a custom base URL
// is configured.
var ErrMissingAPIKey = errors.New("openai: api key is required")

func init() {
	if err := oracle.Register(ProviderName, func(cfg *oracle.Config) (oracle.Oracle, error) {
		return New(cfg)
	}); err != nil {
		panic(fmt.Sprintf("failed to register oracle provider: %v", err))
	}
}

// Oracle proposes items by prompting a chat completions model.
type Oracle struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// New creates an Oracle from cfg. A custom BaseURL allows keyless local
// servers that speak the same API.
func New(cfg *oracle.Config) (*Oracle, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, ErrMissingAPIKey
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Oracle{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (o *Oracle) Propose(ctx context.Context, view oracle.View, requested int, attachment *oracle.Attachment) (*oracle.Proposal, error) {
	prompt, err := buildPrompt(view, requested)
	if err != nil {
		return nil, err
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if attachment != nil && len(attachment.Data) > 0 {
		user.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURL(attachment),
					Detail: openai.ImageURLDetailAuto,
				},
			},
		}
	} else {
		user.Content = prompt
	}

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			user,
		},
		Temperature: o.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if o.maxTokens > 0 {
		req.MaxTokens = o.maxTokens
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, oracle.ErrEmptyProposal
	}

	return oracle.DecodeProposal([]byte(resp.Choices[0].Message.Content))
}

func dataURL(a *oracle.Attachment) string {
	mime := a.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}
