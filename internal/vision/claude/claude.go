package claude

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

// maxTokens leaves room for the full identification JSON (roughly 250 tokens)
// with headroom for verbose answers.
const maxTokens = 1024

type ClaudeModel struct {
	client *anthropic.Client
	model  string
}

// NewClaudeModel builds a Claude backend. baseURL may be empty to use the
// public Anthropic endpoint.
func NewClaudeModel(apiKey, model, baseURL string) *ClaudeModel {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeModel{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (m *ClaudeModel) GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	source := anthropic.NewMessageContentSource(
		anthropic.MessagesContentSourceTypeBase64,
		normaliseMIME(mimeType),
		base64.StdEncoding.EncodeToString(image),
	)
	return m.create(ctx, anthropic.Message{
		Role: anthropic.RoleUser,
		Content: []anthropic.MessageContent{
			anthropic.NewImageMessageContent(source),
			anthropic.NewTextMessageContent(prompt),
		},
	})
}

func (m *ClaudeModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return m.create(ctx, anthropic.NewUserTextMessage(prompt))
}

func (m *ClaudeModel) create(ctx context.Context, msg anthropic.Message) (string, error) {
	resp, err := m.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(m.model),
		MaxTokens: maxTokens,
		Messages:  []anthropic.Message{msg},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	for _, blk := range resp.Content {
		if blk.Type == anthropic.MessagesContentTypeText {
			return blk.GetText(), nil
		}
	}
	return "", fmt.Errorf("claude returned no text content")
}

// normaliseMIME maps browser MIME types to the values the Anthropic API accepts.
// Unknown types are coerced to jpeg.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
