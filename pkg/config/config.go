package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Storage  StorageConfig
	BlobGC   BlobGCConfig
	AI       AIConfig
	Cache    CacheConfig
	Realtime RealtimeConfig
}

// DatabaseConfig is read from DATABASE_URL when set, otherwise from the DB_* parts.
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig is optional; with neither URL nor Host set, caching and the
// cross-instance feed are off.
type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig describes the blob buckets for logos and materials.
type StorageConfig struct {
	BaseDir          string
	PublicBaseURL    string
	Buckets          []string
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// BlobGCConfig controls removal of blobs no row points at any more.
type BlobGCConfig struct {
	Enabled     bool
	Schedule    string
	GracePeriod time.Duration
	Workers     int
	Retries     int
}

// AIConfig targets an OpenAI compatible chat completion endpoint.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

type CacheConfig struct {
	Enabled  bool
	EventTTL time.Duration
}

type RealtimeConfig struct {
	Channel    string
	BufferSize int
	Heartbeat  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		URL:          v.GetString("DATABASE_URL"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		URL:      v.GetString("REDIS_URL"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxFileSize := v.GetInt64("STORAGE_MAX_FILE_SIZE")
	if maxFileSize <= 0 {
		maxFileSize = 10 * 1024 * 1024
	}
	cfg.Storage = StorageConfig{
		BaseDir:          v.GetString("STORAGE_DIR"),
		PublicBaseURL:    strings.TrimRight(v.GetString("STORAGE_PUBLIC_BASE_URL"), "/"),
		Buckets:          splitAndTrim(v.GetString("STORAGE_BUCKETS")),
		MaxFileSizeBytes: maxFileSize,
		AllowedMIMEs:     splitAndTrim(v.GetString("STORAGE_ALLOWED_MIME_TYPES")),
	}

	cfg.BlobGC = BlobGCConfig{
		Enabled:     v.GetBool("ENABLE_BLOB_GC"),
		Schedule:    v.GetString("BLOB_GC_SCHEDULE"),
		GracePeriod: parseDuration(v.GetString("BLOB_GC_GRACE_PERIOD"), 24*time.Hour),
		Workers:     v.GetInt("BLOB_GC_WORKERS"),
		Retries:     v.GetInt("BLOB_GC_RETRIES"),
	}

	cfg.AI = AIConfig{
		APIKey:      v.GetString("GROQ_API_KEY"),
		BaseURL:     v.GetString("AI_BASE_URL"),
		Model:       v.GetString("AI_MODEL"),
		Temperature: float32(v.GetFloat64("AI_TEMPERATURE")),
		Timeout:     parseDuration(v.GetString("AI_TIMEOUT"), 30*time.Second),
	}

	cfg.Cache = CacheConfig{
		Enabled:  v.GetBool("ENABLE_EVENT_CACHE"),
		EventTTL: parseDuration(v.GetString("EVENT_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Realtime = RealtimeConfig{
		Channel:    v.GetString("REALTIME_CHANNEL"),
		BufferSize: v.GetInt("REALTIME_BUFFER_SIZE"),
		Heartbeat:  parseDuration(v.GetString("REALTIME_HEARTBEAT"), 25*time.Second),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "kalender_hmpsti")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "kalender-hmpsti")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORAGE_DIR", "./storage")
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("STORAGE_BUCKETS", "materials")
	v.SetDefault("STORAGE_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("STORAGE_ALLOWED_MIME_TYPES", "image/png,image/jpeg,image/webp,image/svg+xml,application/pdf,application/vnd.openxmlformats-officedocument.wordprocessingml.document,application/vnd.openxmlformats-officedocument.presentationml.presentation,application/zip")

	v.SetDefault("ENABLE_BLOB_GC", true)
	v.SetDefault("BLOB_GC_SCHEDULE", "@daily")
	v.SetDefault("BLOB_GC_GRACE_PERIOD", "24h")
	v.SetDefault("BLOB_GC_WORKERS", 1)
	v.SetDefault("BLOB_GC_RETRIES", 3)

	v.SetDefault("GROQ_API_KEY", "")
	v.SetDefault("AI_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("AI_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("AI_TEMPERATURE", 0.3)
	v.SetDefault("AI_TIMEOUT", "30s")

	v.SetDefault("ENABLE_EVENT_CACHE", true)
	v.SetDefault("EVENT_CACHE_TTL", "5m")

	v.SetDefault("REALTIME_CHANNEL", "kalender:changes")
	v.SetDefault("REALTIME_BUFFER_SIZE", 16)
	v.SetDefault("REALTIME_HEARTBEAT", "25s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
