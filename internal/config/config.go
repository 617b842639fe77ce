package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Queue     QueueConfig     `yaml:"queue" mapstructure:"queue"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	DeepL     DeepLConfig     `yaml:"deepl" mapstructure:"deepl"`
	Unsplash  UnsplashConfig  `yaml:"unsplash" mapstructure:"unsplash"`
	Wikimedia WikimediaConfig `yaml:"wikimedia" mapstructure:"wikimedia"`
	Media     MediaConfig     `yaml:"media" mapstructure:"media"`
	Notify    NotifyConfig    `yaml:"notify" mapstructure:"notify"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Translate TranslateConfig `yaml:"translate" mapstructure:"translate"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the Postgres record store.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// QueueConfig configures the local SQLite request queue.
type QueueConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig holds Anthropic API settings for the fill service.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DeepLConfig holds DeepL API settings for translation and name resolution.
type DeepLConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	CacheTTLMins int    `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
}

// UnsplashConfig holds Unsplash API settings.
type UnsplashConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	PerPage int    `yaml:"per_page" mapstructure:"per_page"`
}

// WikimediaConfig holds Wikimedia API settings.
type WikimediaConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	ThumbSize int    `yaml:"thumb_size" mapstructure:"thumb_size"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// MediaConfig configures image upload to the FTP media host.
type MediaConfig struct {
	FTPAddr   string `yaml:"ftp_addr" mapstructure:"ftp_addr"`
	FTPUser   string `yaml:"ftp_user" mapstructure:"ftp_user"`
	FTPPass   string `yaml:"ftp_pass" mapstructure:"ftp_pass"`
	RemoteDir string `yaml:"remote_dir" mapstructure:"remote_dir"`
	PublicURL string `yaml:"public_url" mapstructure:"public_url"`
}

// NotifyConfig configures the downstream shoutrrr notifier.
type NotifyConfig struct {
	URLs        []string `yaml:"urls" mapstructure:"urls"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PipelineConfig configures ingestion behavior.
type PipelineConfig struct {
	// SectionFailureRatio aborts the fill stage once
	// failed >= ceil(total * ratio). Tunable business rule.
	SectionFailureRatio float64 `yaml:"section_failure_ratio" mapstructure:"section_failure_ratio"`
	SchemaPath          string  `yaml:"schema_path" mapstructure:"schema_path"`
	MaxImages           int     `yaml:"max_images" mapstructure:"max_images"`
}

// TranslateConfig configures translation batching and pacing.
type TranslateConfig struct {
	ChunkSize        int `yaml:"chunk_size" mapstructure:"chunk_size"`
	PacingMS         int `yaml:"pacing_ms" mapstructure:"pacing_ms"`
	LanguagePacingMS int `yaml:"language_pacing_ms" mapstructure:"language_pacing_ms"`
}

// ServerConfig configures the request-enqueue HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks that the keys required for the given scope are set.
// Scopes: "store" needs only the database, "pipeline" needs the full
// external service surface.
func (c *Config) Validate(scope string) error {
	if c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required (FLORA_STORE_DATABASE_URL)")
	}
	if scope == "store" {
		return nil
	}
	if c.Anthropic.Key == "" {
		return eris.New("config: anthropic.key is required (FLORA_ANTHROPIC_KEY)")
	}
	if c.DeepL.Key == "" {
		return eris.New("config: deepl.key is required (FLORA_DEEPL_KEY)")
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FLORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("queue.path", "flora-queue.db")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("deepl.base_url", "https://api-free.deepl.com")
	v.SetDefault("deepl.cache_ttl_mins", 60)
	v.SetDefault("unsplash.base_url", "https://api.unsplash.com")
	v.SetDefault("unsplash.per_page", 3)
	v.SetDefault("wikimedia.base_url", "https://en.wikipedia.org/w/api.php")
	v.SetDefault("wikimedia.thumb_size", 800)
	v.SetDefault("wikimedia.user_agent", "flora-cli/1.0 (plant record ingestion)")
	v.SetDefault("media.remote_dir", "plants")
	v.SetDefault("notify.timeout_secs", 10)
	v.SetDefault("pipeline.section_failure_ratio", 0.5)
	v.SetDefault("pipeline.max_images", 4)
	v.SetDefault("translate.chunk_size", 50)
	v.SetDefault("translate.pacing_ms", 500)
	v.SetDefault("translate.language_pacing_ms", 1000)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
