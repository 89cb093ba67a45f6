package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

type OllamaModel struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaModel(host, model string) *OllamaModel {
	return &OllamaModel{
		host:   host,
		model:  model,
		client: &http.Client{},
	}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Format string   `json:"format,omitempty"`
	Stream bool     `json:"stream"`
}

func (m *OllamaModel) GenerateFromImage(ctx context.Context, prompt string, image []byte, _ string) (string, error) {
	return m.generate(ctx, generateRequest{
		Model:  m.model,
		Prompt: prompt,
		Images: []string{base64.StdEncoding.EncodeToString(image)},
	})
}

// GenerateText asks Ollama for JSON output; text prompts are only used for
// care guides, which must be a bare JSON object.
func (m *OllamaModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return m.generate(ctx, generateRequest{
		Model:  m.model,
		Prompt: prompt,
		Format: "json",
	})
}

func (m *OllamaModel) generate(ctx context.Context, body generateRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close ollama response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, errBody)
	}

	var respBody struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return respBody.Response, nil
}
