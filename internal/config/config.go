package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MaxExecutionTimeout caps every sandbox call regardless of configuration.
const MaxExecutionTimeout = 10 * time.Second

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	Redis       RedisConfig
	Logger      LoggerConfig
	JWT         JWTConfig
	GoogleOAuth GoogleOAuthConfig
	Executor    ExecutorConfig
	Grader      GraderConfig
	Feedback    FeedbackConfig
	Rewards     RewardsConfig
	RateLimit   RateLimitConfig
	CacheTTLs   CacheTTLConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins string
}

type DBConfig struct {
	Driver   string // "pgx" or "sqlite3"
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite3 file path
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
	Env   string
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// ExecutorConfig points at a Piston-compatible execution sandbox.
type ExecutorConfig struct {
	URL           string
	Language      string
	Version       string
	FileName      string
	Timeout       time.Duration
	MaxConcurrent int
}

type GraderConfig struct {
	Provider            string // "openai" or "ollama"
	APIKey              string
	BaseURL             string
	Model               string
	Temperature         float64
	Timeout             time.Duration
	FailureThreshold    int
	BreakerOpenDuration time.Duration
}

type FeedbackConfig struct {
	TranslateTo string
}

type RewardsConfig struct {
	CodeQuestion       int
	Exercise           int
	MCQPerQuestion     int
	MilestoneCompleted int
}

type RateLimitConfig struct {
	SubmissionsPerMinute int
}

type CacheTTLConfig struct {
	Content time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.allow_origins", "*")

	v.SetDefault("db.driver", "pgx")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "pywhiz.db")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("jwt.access_token_ttl", "15m")
	v.SetDefault("jwt.refresh_token_ttl", "168h")

	v.SetDefault("executor.url", "https://emkc.org/api/v2/piston/execute")
	v.SetDefault("executor.language", "python")
	v.SetDefault("executor.version", "3.10.0")
	v.SetDefault("executor.file_name", "main.py")
	v.SetDefault("executor.timeout", "10s")
	v.SetDefault("executor.max_concurrent", 8)

	v.SetDefault("grader.provider", "openai")
	v.SetDefault("grader.model", "gpt-3.5-turbo")
	v.SetDefault("grader.temperature", 0.2)
	v.SetDefault("grader.timeout", "30s")
	v.SetDefault("grader.failure_threshold", 5)
	v.SetDefault("grader.breaker_open_duration", "30s")

	v.SetDefault("rewards.code_question", 10)
	v.SetDefault("rewards.exercise", 20)
	v.SetDefault("rewards.mcq_per_question", 15)
	v.SetDefault("rewards.milestone_completed", 100)

	v.SetDefault("rate_limit.submissions_per_minute", 20)
	v.SetDefault("cache_ttls.content", "10m")
}

func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			AllowOrigins: v.GetString("server.allow_origins"),
		},
		DB: DBConfig{
			Driver:   v.GetString("db.driver"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
			Path:     v.GetString("db.path"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		JWT: JWTConfig{
			SecretKey:       v.GetString("jwt.secret_key"),
			AccessTokenTTL:  v.GetDuration("jwt.access_token_ttl"),
			RefreshTokenTTL: v.GetDuration("jwt.refresh_token_ttl"),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     v.GetString("google_oauth.client_id"),
			ClientSecret: v.GetString("google_oauth.client_secret"),
			RedirectURL:  v.GetString("google_oauth.redirect_url"),
		},
		Executor: ExecutorConfig{
			URL:           v.GetString("executor.url"),
			Language:      v.GetString("executor.language"),
			Version:       v.GetString("executor.version"),
			FileName:      v.GetString("executor.file_name"),
			Timeout:       v.GetDuration("executor.timeout"),
			MaxConcurrent: v.GetInt("executor.max_concurrent"),
		},
		Grader: GraderConfig{
			Provider:            v.GetString("grader.provider"),
			APIKey:              v.GetString("grader.api_key"),
			BaseURL:             v.GetString("grader.base_url"),
			Model:               v.GetString("grader.model"),
			Temperature:         v.GetFloat64("grader.temperature"),
			Timeout:             v.GetDuration("grader.timeout"),
			FailureThreshold:    v.GetInt("grader.failure_threshold"),
			BreakerOpenDuration: v.GetDuration("grader.breaker_open_duration"),
		},
		Feedback: FeedbackConfig{
			TranslateTo: v.GetString("feedback.translate_to"),
		},
		Rewards: RewardsConfig{
			CodeQuestion:       v.GetInt("rewards.code_question"),
			Exercise:           v.GetInt("rewards.exercise"),
			MCQPerQuestion:     v.GetInt("rewards.mcq_per_question"),
			MilestoneCompleted: v.GetInt("rewards.milestone_completed"),
		},
		RateLimit: RateLimitConfig{
			SubmissionsPerMinute: v.GetInt("rate_limit.submissions_per_minute"),
		},
		CacheTTLs: CacheTTLConfig{
			Content: v.GetDuration("cache_ttls.content"),
		},
	}

	// OPENAI_API_KEY is the conventional name; honour it when grader.api_key is unset.
	if cfg.Grader.APIKey == "" {
		cfg.Grader.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Executor.Timeout <= 0 || cfg.Executor.Timeout > MaxExecutionTimeout {
		cfg.Executor.Timeout = MaxExecutionTimeout
	}

	return cfg
}

// GetDSN returns the data source name for the configured driver.
func (c *Config) GetDSN() string {
	if c.DB.Driver == "sqlite3" {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.DB.Path)
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
		c.DB.SSLMode,
	)
}
