package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the assistant and the voice daemon need,
// loaded from the environment (optionally seeded by a .env file).
type Config struct {
	AI      AIConfig
	Voice   VoiceConfig
	History HistoryConfig
	Feed    FeedConfig
}

// AIConfig selects and tunes the answer backends.
type AIConfig struct {
	APIKey      string // remote API key; remote backend disabled when empty
	Model       string
	MaxTokens   int
	Temperature float64

	LocalEnabled bool
	LocalURL     string // OpenAI-compatible endpoint (ollama, llama.cpp server)
	LocalModel   string

	ProxyAddr string // SOCKS5 address for the remote client; direct when empty
	Timeout   time.Duration
}

// VoiceConfig tunes the microphone loop and speech output.
type VoiceConfig struct {
	WhisperModel  string
	Language      string
	WakeWord      string
	ListenTimeout time.Duration
	CuePath       string // mp3 played before listening; silent when empty
}

// HistoryConfig controls the sqlite query log.
type HistoryConfig struct {
	Enabled bool
	Path    string
}

// FeedConfig controls the daemon websocket event feed.
type FeedConfig struct {
	Enabled bool
	Addr    string
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		AI: AIConfig{
			APIKey:       os.Getenv("KENKI_API_KEY"),
			Model:        envString("KENKI_MODEL", "gpt-5-nano"),
			MaxTokens:    envInt("KENKI_MAX_TOKENS", 1000),
			Temperature:  envFloat("KENKI_TEMPERATURE", 0.7),
			LocalEnabled: envBool("KENKI_LOCAL_ENABLED", false),
			LocalURL:     envString("KENKI_LOCAL_URL", "http://localhost:11434/v1"),
			LocalModel:   envString("KENKI_LOCAL_MODEL", "mistral"),
			ProxyAddr:    os.Getenv("KENKI_PROXY"),
			Timeout:      envDuration("KENKI_AI_TIMEOUT", 120*time.Second),
		},
		Voice: VoiceConfig{
			WhisperModel:  envString("KENKI_WHISPER_MODEL", "/usr/share/kenki/models/ggml-base.en.bin"),
			Language:      envString("KENKI_VOICE_LANG", "en"),
			WakeWord:      envString("KENKI_WAKE_WORD", "kenki"),
			ListenTimeout: envDuration("KENKI_LISTEN_TIMEOUT", 10*time.Second),
			CuePath:       os.Getenv("KENKI_CUE_PATH"),
		},
		History: HistoryConfig{
			Enabled: envString("KENKI_HISTORY", "on") != "off",
			Path:    envString("KENKI_HISTORY_PATH", defaultHistoryPath()),
		},
		Feed: FeedConfig{
			Enabled: envBool("KENKI_FEED_ENABLED", false),
			Addr:    envString("KENKI_FEED_ADDR", "127.0.0.1:8092"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive: %d", c.AI.MaxTokens)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("temperature out of range: %g", c.AI.Temperature)
	}
	if c.AI.LocalEnabled && c.AI.LocalURL == "" {
		return fmt.Errorf("local backend enabled without KENKI_LOCAL_URL")
	}
	if c.Voice.ListenTimeout <= 0 {
		return fmt.Errorf("listen timeout must be positive: %s", c.Voice.ListenTimeout)
	}
	return nil
}

func defaultHistoryPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.local/share/kenki/history.db"
	}
	return "./kenki-history.db"
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
