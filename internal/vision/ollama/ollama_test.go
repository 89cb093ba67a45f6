package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerateFromImage(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)

		resp := map[string]interface{}{
			"model":    got.Model,
			"response": "NOT_A_PLANT",
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	model := NewOllamaModel(server.URL, "llava")

	// Provide dummy image data
	imageData := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	text, err := model.GenerateFromImage(context.Background(), "identify", imageData, "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "NOT_A_PLANT", text)
	assert.Equal(t, "llava", got.Model)
	assert.Equal(t, "identify", got.Prompt)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "/9j/4A==", got.Images[0])
	assert.False(t, got.Stream)
	assert.Empty(t, got.Format)
}

func TestOllamaGenerateTextRequestsJSON(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"{\"watering\":\"weekly\"}"}`))
	}))
	defer server.Close()

	model := NewOllamaModel(server.URL, "llama3")
	text, err := model.GenerateText(context.Background(), "care for fern")

	require.NoError(t, err)
	assert.Equal(t, `{"watering":"weekly"}`, text)
	assert.Equal(t, "json", got.Format)
	assert.Empty(t, got.Images)
}

func TestOllamaNetworkError(t *testing.T) {
	model := NewOllamaModel("http://localhost:99999", "llava")

	_, err := model.GenerateText(context.Background(), "hello")
	assert.Error(t, err)
}

func TestOllamaErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	model := NewOllamaModel(server.URL, "llava")
	_, err := model.GenerateFromImage(context.Background(), "identify", []byte{0xFF}, "image/jpeg")

	assert.Error(t, err)
}

func TestOllamaInvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	model := NewOllamaModel(server.URL, "llava")
	_, err := model.GenerateText(context.Background(), "hello")

	assert.Error(t, err)
}
