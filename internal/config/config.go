package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/hack2infi/mindmate/backend/internal/monitor"
	"github.com/hack2infi/mindmate/backend/internal/transport/bridge"
)

// Config aggregates every configurable piece of the backend.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Speech  SpeechConfig
	Monitor MonitorConfig
	Media   MediaConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	speech := loadSpeechConfig()

	mon, err := loadMonitorConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		AI:      ai,
		Speech:  speech,
		Monitor: mon,
		Media:   loadMediaConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig carries the Ark chat-model credentials and generation knobs.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the required credentials were supplied.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds an Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials missing: provide ARK_API_KEY + Model, or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// SpeechConfig carries the OpenAI speech credentials.
type SpeechConfig struct {
	APIKey  string
	Voice   string
	Enabled bool
}

func loadSpeechConfig() SpeechConfig {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	return SpeechConfig{
		APIKey:  apiKey,
		Voice:   getEnvOrDefault("SPEECH_TTS_VOICE", ""),
		Enabled: apiKey != "",
	}
}

// MonitorConfig tunes the chat-affect monitor daemon.
type MonitorConfig struct {
	BridgeURL        string
	PollInterval     time.Duration
	Cooldown         time.Duration
	ErrorBackoff     time.Duration
	RetryDelay       time.Duration
	DispatchAttempts int
	FetchWindow      int
	DedupCapacity    int
}

func loadMonitorConfig() (MonitorConfig, error) {
	defaults := monitor.DefaultOptions()

	pollInterval, err := parseDurationEnv("MONITOR_POLL_INTERVAL", defaults.PollInterval)
	if err != nil {
		return MonitorConfig{}, err
	}

	cooldown, err := parseDurationEnv("MONITOR_COOLDOWN", monitor.DefaultCooldown)
	if err != nil {
		return MonitorConfig{}, err
	}

	errorBackoff, err := parseDurationEnv("MONITOR_ERROR_BACKOFF", defaults.ErrorBackoff)
	if err != nil {
		return MonitorConfig{}, err
	}

	retryDelay, err := parseDurationEnv("MONITOR_RETRY_DELAY", defaults.RetryDelay)
	if err != nil {
		return MonitorConfig{}, err
	}

	attempts := defaults.DispatchAttempts
	if override, err := parseOptionalIntEnv("MONITOR_DISPATCH_ATTEMPTS"); err != nil {
		return MonitorConfig{}, err
	} else if override != nil && *override > 0 {
		attempts = *override
	}

	window := bridge.DefaultFetchWindow
	if override, err := parseOptionalIntEnv("MONITOR_FETCH_WINDOW"); err != nil {
		return MonitorConfig{}, err
	} else if override != nil && *override > 0 {
		window = *override
	}

	capacity := monitor.DefaultDedupCapacity
	if override, err := parseOptionalIntEnv("MONITOR_DEDUP_CAPACITY"); err != nil {
		return MonitorConfig{}, err
	} else if override != nil && *override > 0 {
		capacity = *override
	}

	return MonitorConfig{
		BridgeURL:        getEnvOrDefault("MONITOR_BRIDGE_URL", "ws://127.0.0.1:8765/bridge"),
		PollInterval:     pollInterval,
		Cooldown:         cooldown,
		ErrorBackoff:     errorBackoff,
		RetryDelay:       retryDelay,
		DispatchAttempts: attempts,
		FetchWindow:      window,
		DedupCapacity:    capacity,
	}, nil
}

// MediaConfig lists the companion resources the monitor may dispatch.
// Path lists are comma separated; empty categories are simply skipped.
type MediaConfig struct {
	Images       []string
	VoiceNotes   []string
	Videos       []string
	CalmingLinks []string
}

func loadMediaConfig() MediaConfig {
	links := splitListEnv("MEDIA_CALMING_LINKS")
	if len(links) == 0 {
		links = []string{
			"https://www.youtube.com/watch?v=5qXflvI2Xig",
			"https://www.calm.com",
		}
	}

	return MediaConfig{
		Images:       splitListEnv("MEDIA_IMAGES"),
		VoiceNotes:   splitListEnv("MEDIA_VOICE_NOTES"),
		Videos:       splitListEnv("MEDIA_VIDEOS"),
		CalmingLinks: links,
	}
}

func splitListEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
