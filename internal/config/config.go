package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
// Supports environment variables with sensible defaults
//
// Environment Variables:
// HTTP Configuration:
// - HTTP_ADDR: Listen address (default: :5000)
//
// Data Directory Configuration:
// - UPLOAD_DIR: Uploaded/downloaded video directory (default: data_uploads)
// - AUDIO_DIR: Extracted audio directory (default: data_audio)
// - SRT_DIR: Generated subtitle directory (default: data_srt)
// - PROCESSED_DIR: Final rendered output directory (default: data_processed)
//
// Limit Configuration:
// - MAX_UPLOAD_MB: Maximum upload size in MiB (default: 500)
// - MAX_VIDEO_SECONDS: Maximum accepted video duration (default: 600)
//
// LLM Configuration (translation):
// - LLM_API_KEY: API key for the LLM provider (required)
// - LLM_API_URL: API endpoint URL (default: https://api.aimlapi.com/v1)
// - LLM_MODEL: Model name to use (default: openai/gpt-5-2025-08-07)
// - LLM_MAX_TOKENS: Maximum tokens for responses (default: 1000)
// - LLM_TEMPERATURE: Temperature for responses (default: 0.3)
// - LLM_TIMEOUT: Request timeout in seconds (default: 30)
// - LLM_SITE_URL: Site URL for HTTP referer header (optional)
// - LLM_APP_NAME: Application name for X-Title header (optional)
//
// Transcription Configuration (speech-to-text):
// - TRANSCRIBE_API_KEY: API key (default: LLM_API_KEY)
// - TRANSCRIBE_API_URL: API endpoint URL (default: https://api.openai.com/v1)
// - TRANSCRIBE_MODEL: Model name (default: whisper-1)
// - TRANSCRIBE_TIMEOUT: Request timeout in seconds (default: 120)
//
// Render Configuration:
// - RENDER_BURN_IN: Burn subtitles into the video (default: true)
//
// Retention Configuration:
// - RETENTION_TTL_HOURS: Hours to keep finished jobs and their files (default: 24)
// - RETENTION_CRON_EXPR: Sweep schedule (default: 0 * * * *)

type Config struct {
	// HTTP Configuration
	HTTP HTTPConfig `json:"http"`

	// Data Directory Configuration
	Data DataConfig `json:"data"`

	// Limit Configuration
	Limits LimitConfig `json:"limits"`

	// LLM Configuration
	LLM LLMConfig `json:"llm"`

	// Transcription Configuration
	Transcribe TranscribeConfig `json:"transcribe"`

	// Render Configuration
	Render RenderConfig `json:"render"`

	// Retention Configuration
	Retention RetentionConfig `json:"retention"`
}

// HTTPConfig holds the configuration for the HTTP server
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// DataConfig holds the working directories of the pipeline
type DataConfig struct {
	UploadDir    string `json:"upload_dir"`
	AudioDir     string `json:"audio_dir"`
	SRTDir       string `json:"srt_dir"`
	ProcessedDir string `json:"processed_dir"`
}

// Dirs returns all configured data directories.
func (c DataConfig) Dirs() []string {
	return []string{c.UploadDir, c.AudioDir, c.SRTDir, c.ProcessedDir}
}

// LimitConfig holds request and media limits
type LimitConfig struct {
	MaxUploadBytes  int64 `json:"max_upload_bytes"`
	MaxVideoSeconds int   `json:"max_video_seconds"`
}

// LLMConfig holds the configuration for the translation LLM client
// Supports any OpenAI-compatible provider
type LLMConfig struct {
	APIKey      string  `json:"api_key"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"`
	SiteURL     string  `json:"site_url"`
	AppName     string  `json:"app_name"`
}

// TranscribeConfig holds the configuration for the speech-to-text client
type TranscribeConfig struct {
	APIKey  string `json:"api_key"`
	APIURL  string `json:"api_url"`
	Model   string `json:"model"`
	Timeout int    `json:"timeout"`
}

// RenderConfig holds the configuration for subtitle rendering
type RenderConfig struct {
	BurnIn bool `json:"burn_in"`
}

// RetentionConfig holds the configuration for job/file cleanup
type RetentionConfig struct {
	TTLHours int    `json:"ttl_hours"`
	CronExpr string `json:"cron_expr"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		HTTP: HTTPConfig{
			Addr: getEnvString("HTTP_ADDR", ":5000"),
		},
		Data: DataConfig{
			UploadDir:    getEnvString("UPLOAD_DIR", "data_uploads"),
			AudioDir:     getEnvString("AUDIO_DIR", "data_audio"),
			SRTDir:       getEnvString("SRT_DIR", "data_srt"),
			ProcessedDir: getEnvString("PROCESSED_DIR", "data_processed"),
		},
		Limits: LimitConfig{
			MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_MB", 500)) * 1024 * 1024,
			MaxVideoSeconds: getEnvInt("MAX_VIDEO_SECONDS", 600),
		},
		LLM: LLMConfig{
			APIKey:      getEnvString("LLM_API_KEY", ""),
			APIURL:      getEnvString("LLM_API_URL", "https://api.aimlapi.com/v1"),
			Model:       getEnvString("LLM_MODEL", "openai/gpt-5-2025-08-07"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 1000),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.3),
			Timeout:     getEnvInt("LLM_TIMEOUT", 30),
			SiteURL:     getEnvString("LLM_SITE_URL", ""),
			AppName:     getEnvString("LLM_APP_NAME", ""),
		},
		Transcribe: TranscribeConfig{
			APIKey:  getEnvString("TRANSCRIBE_API_KEY", ""),
			APIURL:  getEnvString("TRANSCRIBE_API_URL", "https://api.openai.com/v1"),
			Model:   getEnvString("TRANSCRIBE_MODEL", "whisper-1"),
			Timeout: getEnvInt("TRANSCRIBE_TIMEOUT", 120),
		},
		Render: RenderConfig{
			BurnIn: getEnvBool("RENDER_BURN_IN", true),
		},
		Retention: RetentionConfig{
			TTLHours: getEnvInt("RETENTION_TTL_HOURS", 24),
			CronExpr: getEnvString("RETENTION_CRON_EXPR", "0 * * * *"),
		},
	}

	if config.Transcribe.APIKey == "" {
		config.Transcribe.APIKey = config.LLM.APIKey
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Limits.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.Limits.MaxVideoSeconds <= 0 {
		return fmt.Errorf("MAX_VIDEO_SECONDS must be positive")
	}
	if _, err := cron.ParseStandard(c.Retention.CronExpr); err != nil {
		return fmt.Errorf("invalid RETENTION_CRON_EXPR: %w", err)
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean value from environment variables with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
