package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/plantid/internal/config"
	"github.com/vbonduro/plantid/internal/domain"
	"github.com/vbonduro/plantid/internal/places"
	"github.com/vbonduro/plantid/internal/service"
	"github.com/vbonduro/plantid/internal/vision"
	claudevision "github.com/vbonduro/plantid/internal/vision/claude"
	ollamavision "github.com/vbonduro/plantid/internal/vision/ollama"
)

// isolateEnv unsets the variables the CLI reads so the host environment does
// not leak into a test. t.Setenv restores them afterwards.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "LISTEN_ADDR", "VISION_BACKEND", "GEMINI_API_KEY", "GEMINI_BASE_URL",
		"CLAUDE_API_KEY", "GOOGLE_PLACES_API_KEY", "PLACES_BASE_URL", "OLLAMA_HOST", "OLLAMA_MODEL", "LOG_FILE",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("LOG_LEVEL", "error")
}

// ollamaServer answers every /api/generate call with reply.
func ollamaServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"response": reply, "done": true})
	}))
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewModel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	tests := []struct {
		name  string
		cfg   config.Config
		check func(t *testing.T, m vision.Model)
	}{
		{
			name: "gemini without key",
			cfg:  config.Config{VisionBackend: "gemini"},
			check: func(t *testing.T, m vision.Model) {
				assert.Equal(t, vision.Unconfigured{Backend: "gemini"}, m)
			},
		},
		{
			name: "unknown backend falls back to gemini",
			cfg:  config.Config{VisionBackend: "bard"},
			check: func(t *testing.T, m vision.Model) {
				assert.Equal(t, vision.Unconfigured{Backend: "gemini"}, m)
			},
		},
		{
			name: "claude without key",
			cfg:  config.Config{VisionBackend: "claude"},
			check: func(t *testing.T, m vision.Model) {
				assert.Equal(t, vision.Unconfigured{Backend: "claude"}, m)
			},
		},
		{
			name: "claude with key",
			cfg:  config.Config{VisionBackend: "claude", ClaudeAPIKey: "sk-test", ClaudeModel: "claude-opus-4-6"},
			check: func(t *testing.T, m vision.Model) {
				assert.IsType(t, &claudevision.ClaudeModel{}, m)
			},
		},
		{
			name: "ollama needs no key",
			cfg:  config.Config{VisionBackend: "ollama", OllamaHost: "http://localhost:11434", OllamaModel: "llava"},
			check: func(t *testing.T, m vision.Model) {
				assert.IsType(t, &ollamavision.OllamaModel{}, m)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, newModel(ctx, &tt.cfg, logger))
		})
	}
}

func TestCareCommand(t *testing.T) {
	isolateEnv(t)
	server := ollamaServer(t, `{"watering":"Weekly","sunlight":"Bright","soil":"Sandy","temperature":"20C"}`)
	t.Setenv("VISION_BACKEND", "ollama")
	t.Setenv("OLLAMA_HOST", server.URL)

	out, err := execute(t, "care", "Aloe", "vera")
	require.NoError(t, err)

	var care domain.CareInstructions
	require.NoError(t, json.Unmarshal([]byte(out), &care))
	assert.Equal(t, "Weekly", care.Watering)
	assert.Equal(t, "20C", care.Temperature)
}

func TestCareCommandFallsBackWithoutBackend(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "care", "--links", "Fern")
	require.NoError(t, err)

	var body struct {
		CareInstructions domain.CareInstructions `json:"careInstructions"`
		Links            []domain.BuyLink        `json:"links"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, domain.DefaultCareInstructions(), body.CareInstructions)
	assert.Len(t, body.Links, 2)
}

func TestIdentifyCommand(t *testing.T) {
	isolateEnv(t)
	reply, err := json.Marshal(domain.PlantInfo{
		Name:             "Snake Plant",
		ScientificName:   "Dracaena trifasciata",
		Description:      "Hardy",
		CareInstructions: domain.DefaultCareInstructions(),
		AdditionalInfo:   domain.AdditionalInfo{NativeTo: "West Africa", GrowthRate: "Slow", Toxicity: "Mildly toxic to pets"},
	})
	require.NoError(t, err)
	server := ollamaServer(t, "Sure! "+string(reply))
	t.Setenv("VISION_BACKEND", "ollama")
	t.Setenv("OLLAMA_HOST", server.URL)

	path := filepath.Join(t.TempDir(), "plant.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, 0600))

	out, err := execute(t, "identify", path)
	require.NoError(t, err)

	var info domain.PlantInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "Snake Plant", info.Name)
	assert.Equal(t, "West Africa", info.AdditionalInfo.NativeTo)
}

func TestIdentifyCommandIncompleteReply(t *testing.T) {
	isolateEnv(t)
	server := ollamaServer(t, `{"name":"Snake Plant","scientificName":"Dracaena trifasciata","description":"Hardy"}`)
	t.Setenv("VISION_BACKEND", "ollama")
	t.Setenv("OLLAMA_HOST", server.URL)

	path := filepath.Join(t.TempDir(), "plant.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, 0600))

	_, err := execute(t, "identify", path)
	assert.ErrorIs(t, err, service.ErrUnidentifiable)
}

func TestIdentifyCommandErrors(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "identify", filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorContains(t, err, "failed to read image")

	_, err = execute(t, "identify")
	assert.Error(t, err)
}

func TestNurseriesCommandFlags(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "nothing", args: []string{"nurseries"}, want: "either --lat/--lng or --query is required"},
		{name: "lat only", args: []string{"nurseries", "--lat", "12.9"}, want: "both --lat and --lng are required"},
		{name: "both modes", args: []string{"nurseries", "--lat", "1", "--lng", "1", "--query", "x"}, want: "not both"},
		{name: "out of range", args: []string{"nurseries", "--lat", "95", "--lng", "1"}, want: "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNurseriesCommandNotConfigured(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "nurseries", "--query", "Pune")
	assert.True(t, errors.Is(err, places.ErrNotConfigured))
}

func TestNurseriesCommand(t *testing.T) {
	isolateEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"results": []map[string]any{{
				"place_id": "p1",
				"name":     "Green Thumb",
				"vicinity": "MG Road",
				"rating":   4.2,
				"geometry": map[string]any{"location": map[string]any{"lat": 12.98, "lng": 77.6}},
			}},
		})
	}))
	t.Cleanup(server.Close)
	t.Setenv("GOOGLE_PLACES_API_KEY", "AIzaTestKey")
	t.Setenv("PLACES_BASE_URL", server.URL)

	out, err := execute(t, "nurseries", "--lat", "12.97", "--lng", "77.59")
	require.NoError(t, err)

	var body struct {
		Nurseries []domain.Nursery `json:"nurseries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	require.Len(t, body.Nurseries, 1)
	assert.Equal(t, "Green Thumb", body.Nurseries[0].Name)
	assert.Greater(t, body.Nurseries[0].Distance, 0.0)
	assert.Contains(t, out, `"rating": 4.2,`)
}

func TestConfigFlagOverridesEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	path := filepath.Join(t.TempDir(), "plantid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ollama_model: moondream\n"), 0600))

	cfg, err := loadConfig(&rootOptions{configFile: path})
	require.NoError(t, err)
	assert.Equal(t, "moondream", cfg.OllamaModel)
	assert.Equal(t, "gemini", cfg.VisionBackend)

	_, err = loadConfig(&rootOptions{})
	assert.Error(t, err)
}
