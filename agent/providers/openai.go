package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/morvo-ai/engine/core/protocol"
)

const defaultModel = "gpt-4o"

// OpenAI is a Provider backed by the OpenAI chat completions API, or any
// compatible endpoint via a custom base URL.
type OpenAI struct {
	client openai.Client
	model  string
}

// OpenAIOption configures an OpenAI provider.
type OpenAIOption func(*openAIOptions)

type openAIOptions struct {
	model   string
	baseURL string
}

// WithModel sets the default model used when a request names none.
func WithModel(model string) OpenAIOption {
	return func(o *openAIOptions) {
		o.model = model
	}
}

// WithBaseURL points the provider at an OpenAI-compatible endpoint such as
// Azure OpenAI or a local model server.
func WithBaseURL(baseURL string) OpenAIOption {
	return func(o *openAIOptions) {
		o.baseURL = baseURL
	}
}

// NewOpenAI creates an OpenAI provider. An empty apiKey falls back to the
// OPENAI_API_KEY environment variable; OPENAI_BASE_URL overrides the endpoint
// when no WithBaseURL option is given.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required (parameter or OPENAI_API_KEY)")
	}

	options := openAIOptions{model: defaultModel}
	for _, opt := range opts {
		opt(&options)
	}
	if options.baseURL == "" {
		options.baseURL = os.Getenv("OPENAI_BASE_URL")
	}

	requestOptions := []option.RequestOption{option.WithAPIKey(apiKey)}
	if options.baseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(options.baseURL))
	}

	return &OpenAI{
		client: openai.NewClient(requestOptions...),
		model:  options.model,
	}, nil
}

// Complete sends the conversation to the chat completions API and returns
// the first choice's content.
func (p *OpenAI) Complete(ctx context.Context, model string, messages []protocol.Message) (string, error) {
	if model == "" {
		model = p.model
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: convertMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func convertMessages(messages []protocol.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case protocol.RoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		case protocol.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(msg.Content))
		default:
			converted = append(converted, openai.UserMessage(msg.Content))
		}
	}
	return converted
}
