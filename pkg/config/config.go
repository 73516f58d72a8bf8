package config

import (
	"errors"
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

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	AI        AIConfig
	Scheduler SchedulerConfig
	Learner   LearnerConfig
	Exports   ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AIConfig selects and tunes the task categorization provider. An empty
// APIKey selects the heuristic mock provider.
type AIConfig struct {
	APIKey             string
	BaseURL            string
	ClassifierModel    string
	InstructModel      string
	RequestTimeout     time.Duration
	ExplanationEnabled bool
}

// SchedulerConfig tunes one generation run.
type SchedulerConfig struct {
	MaxTasksPerDay int
	CacheTTL       time.Duration
	HistoryDays    int
}

// LearnerConfig carries the online model hyperparameters.
type LearnerConfig struct {
	LearningRate     float64
	Regularization   float64
	MinFeedbackCount int
}

// ExportsConfig controls plan export rendering and artifact storage.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.AI = AIConfig{
		APIKey:             v.GetString("AI_API_KEY"),
		BaseURL:            v.GetString("AI_BASE_URL"),
		ClassifierModel:    v.GetString("AI_CLASSIFIER_MODEL"),
		InstructModel:      v.GetString("AI_INSTRUCT_MODEL"),
		RequestTimeout:     parseDuration(v.GetString("AI_REQUEST_TIMEOUT"), 8*time.Second),
		ExplanationEnabled: v.GetBool("AI_EXPLANATIONS"),
	}

	cfg.Scheduler = SchedulerConfig{
		MaxTasksPerDay: v.GetInt("SCHEDULER_MAX_TASKS_PER_DAY"),
		CacheTTL:       parseDuration(v.GetString("SCHEDULER_CACHE_TTL"), 10*time.Minute),
		HistoryDays:    v.GetInt("SCHEDULER_HISTORY_DAYS"),
	}

	cfg.Learner = LearnerConfig{
		LearningRate:     v.GetFloat64("LEARNER_RATE"),
		Regularization:   v.GetFloat64("LEARNER_REGULARIZATION"),
		MinFeedbackCount: v.GetInt("LEARNER_MIN_FEEDBACK"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "dayplan")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_BASE_URL", "https://api-inference.huggingface.co")
	v.SetDefault("AI_CLASSIFIER_MODEL", "facebook/bart-large-mnli")
	v.SetDefault("AI_INSTRUCT_MODEL", "mistralai/Mistral-7B-Instruct-v0.2")
	v.SetDefault("AI_REQUEST_TIMEOUT", "8s")
	v.SetDefault("AI_EXPLANATIONS", true)

	v.SetDefault("SCHEDULER_MAX_TASKS_PER_DAY", 50)
	v.SetDefault("SCHEDULER_CACHE_TTL", "10m")
	v.SetDefault("SCHEDULER_HISTORY_DAYS", 5)

	v.SetDefault("LEARNER_RATE", 0.05)
	v.SetDefault("LEARNER_REGULARIZATION", 0.001)
	v.SetDefault("LEARNER_MIN_FEEDBACK", 20)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
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
