package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Parser      ParserConfig    `mapstructure:"parser"`
	Tagger      TaggerConfig    `mapstructure:"tagger"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Queue       QueueConfig     `mapstructure:"queue"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Request     RequestConfig   `mapstructure:"request"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFile     string          `mapstructure:"log_file"`

	v *viper.Viper
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// ParserConfig 解析器設定
type ParserConfig struct {
	// DeferTagging 建構前處理器時不進行詞性標註
	DeferTagging bool `mapstructure:"defer_tagging"`
}

// TaggerConfig 詞性標註器設定
type TaggerConfig struct {
	Mode    string        `mapstructure:"mode"` // rule | remote | none
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig 記憶體緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig 共用緩存（Redis）配置
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// QueueConfig 批次解析工作池設定
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// RequestConfig 請求大小限制
type RequestConfig struct {
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	MaxBatchSize int           `mapstructure:"max_batch_size"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// envBindings 設定鍵 → 環境變數
var envBindings = map[string]string{
	"server.port":            "PORT",
	"parser.defer_tagging":   "PARSER_DEFER_TAGGING",
	"tagger.mode":            "TAGGER_MODE",
	"tagger.url":             "TAGGER_URL",
	"tagger.api_key":         "TAGGER_API_KEY",
	"tagger.timeout":         "TAGGER_TIMEOUT",
	"cache.enabled":          "CACHE_ENABLED",
	"cache.max_size":         "CACHE_MAX_SIZE",
	"cache.ttl":              "CACHE_TTL",
	"redis.enabled":          "REDIS_ENABLED",
	"redis.addr":             "REDIS_ADDR",
	"redis.password":         "REDIS_PASSWORD",
	"redis.db":               "REDIS_DB",
	"redis.ttl":              "REDIS_TTL",
	"queue.workers":          "QUEUE_WORKERS",
	"queue.max_size":         "QUEUE_MAX_SIZE",
	"rate_limit.enabled":     "RATE_LIMIT_ENABLED",
	"rate_limit.requests":    "RATE_LIMIT_REQUESTS",
	"rate_limit.window":      "RATE_LIMIT_WINDOW",
	"request.max_body_bytes": "MAX_BODY_BYTES",
	"request.max_batch_size": "MAX_BATCH_SIZE",
	"request.timeout":        "REQUEST_TIMEOUT",
	"dedup_window":           "DEDUP_WINDOW",
	"log_level":              "LOG_LEVEL",
	"log_file":               "LOG_FILE",
}

// LoadConfig 從目前目錄的 .env 與環境變數載入設定
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom 從指定的 .env 檔案與環境變數載入設定
// 檔案不存在時只使用預設值與環境變數
func LoadConfigFrom(envFile string) (*Config, error) {
	// 加載 .env 文件（不覆蓋已存在的環境變數）
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// 設定設定檔名稱和路徑
	v.SetConfigName(filepath.Base(envFile))
	v.SetConfigType("env")
	v.AddConfigPath(filepath.Dir(envFile))

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.v = v

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// WatchLogLevel 監看設定檔，LOG_LEVEL 變更時呼叫 apply
// 沒有使用設定檔時回傳 false
func (c *Config) WatchLogLevel(apply func(level string)) bool {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return false
	}

	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		// 直接讀檔：godotenv 啟動時寫入的環境變數優先權高於設定檔
		values, err := godotenv.Read(e.Name)
		if err != nil {
			return
		}
		if level, ok := values["LOG_LEVEL"]; ok && level != "" {
			c.LogLevel = level
			apply(level)
		}
	})
	c.v.WatchConfig()
	return true
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// Summary 可安全寫入日誌的設定摘要
func (c *Config) Summary() map[string]interface{} {
	summary := map[string]interface{}{
		"env":           c.App.Env,
		"port":          c.Server.Port,
		"tagger_mode":   c.Tagger.Mode,
		"defer_tagging": c.Parser.DeferTagging,
		"cache_enabled": c.Cache.Enabled,
		"redis_enabled": c.Redis.Enabled,
		"queue_workers": c.Queue.Workers,
		"log_level":     c.LogLevel,
	}
	if c.Tagger.APIKey != "" {
		summary["tagger_api_key"] = maskAPIKey(c.Tagger.APIKey)
	}
	return summary
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "ingredient-parser")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// 解析器與標註器設定
	v.SetDefault("parser.defer_tagging", false)
	v.SetDefault("tagger.mode", "rule")
	v.SetDefault("tagger.timeout", "5s")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 10000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Redis 設定
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "168h")

	// 工作池設定
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.max_size", 1000)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 600)
	v.SetDefault("rate_limit.window", "1m")

	// 請求限制
	v.SetDefault("request.max_body_bytes", 1<<20) // 1MB
	v.SetDefault("request.max_batch_size", 500)
	v.SetDefault("request.timeout", "30s")

	// 0 表示停用請求去重
	v.SetDefault("dedup_window", "0s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證標註器設定
	switch config.Tagger.Mode {
	case "rule", "none":
	case "remote":
		if config.Tagger.URL == "" {
			return fmt.Errorf("tagger url is required in remote mode")
		}
		if config.Tagger.Timeout <= 0 {
			return fmt.Errorf("invalid tagger timeout")
		}
	default:
		return fmt.Errorf("invalid tagger mode: %q", config.Tagger.Mode)
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}
	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}

	// 驗證工作池設定
	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	if config.Request.MaxBatchSize <= 0 {
		return fmt.Errorf("invalid max batch size")
	}
	if config.Request.Timeout <= 0 {
		return fmt.Errorf("invalid request timeout")
	}
	// 驗證限流設定
	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}
	if config.DedupWindow < 0 {
		return fmt.Errorf("invalid dedup window")
	}

	return nil
}
