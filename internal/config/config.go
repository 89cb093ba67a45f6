package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr    string `yaml:"listen_addr"`
	VisionBackend string `yaml:"vision_backend"`
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`
	GeminiBaseURL string `yaml:"gemini_base_url"`
	ClaudeAPIKey  string `yaml:"claude_api_key"`
	ClaudeModel   string `yaml:"claude_model"`
	ClaudeBaseURL string `yaml:"claude_base_url"`
	OllamaHost    string `yaml:"ollama_host"`
	OllamaModel   string `yaml:"ollama_model"`
	PlacesAPIKey  string `yaml:"places_api_key"`
	PlacesBaseURL string `yaml:"places_base_url"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	LogFile       string `yaml:"log_file"`
}

func defaults() *Config {
	return &Config{
		ListenAddr:    ":8080",
		VisionBackend: "gemini",
		GeminiModel:   "gemini-2.0-flash",
		ClaudeModel:   "claude-opus-4-6",
		OllamaHost:    "http://localhost:11434",
		OllamaModel:   "llava",
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables. Missing API keys are not
// an error here; the affected backends report themselves unconfigured.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit config file path. An empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ListenAddr = getEnv("LISTEN_ADDR", c.ListenAddr)
	c.VisionBackend = getEnv("VISION_BACKEND", c.VisionBackend)
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.GeminiBaseURL = getEnv("GEMINI_BASE_URL", c.GeminiBaseURL)
	c.ClaudeAPIKey = getEnv("CLAUDE_API_KEY", c.ClaudeAPIKey)
	c.ClaudeModel = getEnv("CLAUDE_MODEL", c.ClaudeModel)
	c.ClaudeBaseURL = getEnv("CLAUDE_BASE_URL", c.ClaudeBaseURL)
	c.OllamaHost = getEnv("OLLAMA_HOST", c.OllamaHost)
	c.OllamaModel = getEnv("OLLAMA_MODEL", c.OllamaModel)
	c.PlacesAPIKey = getEnv("GOOGLE_PLACES_API_KEY", c.PlacesAPIKey)
	c.PlacesBaseURL = getEnv("PLACES_BASE_URL", c.PlacesBaseURL)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
