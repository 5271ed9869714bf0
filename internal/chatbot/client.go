package chatbot

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type Message struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Client abstrai o provedor de LLM; os testes usam um fake.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// OpenAIClient chama a API de chat completions pedindo resposta JSON.
// Cada chamada tem timeout próprio; nenhuma é re-tentada.
type OpenAIClient struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		api:     openai.NewClient(apiKey),
		model:   model,
		timeout: 30 * time.Second,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("resposta vazia do modelo")
	}

	return resp.Choices[0].Message.Content, nil
}

var _ Client = (*OpenAIClient)(nil)
