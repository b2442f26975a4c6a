package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "pgx", cfg.DB.Driver)
	assert.Equal(t, "python", cfg.Executor.Language)
	assert.Equal(t, 10*time.Second, cfg.Executor.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Grader.Timeout)
	assert.Equal(t, 10, cfg.Rewards.CodeQuestion)
	assert.Equal(t, 20, cfg.Rewards.Exercise)
	assert.Equal(t, 15, cfg.Rewards.MCQPerQuestion)
	assert.Equal(t, 100, cfg.Rewards.MilestoneCompleted)
	assert.Empty(t, cfg.Feedback.TranslateTo)
}

func TestFromViper_ExecutorTimeoutIsClamped(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "within bound", value: "4s", expected: 4 * time.Second},
		{name: "above bound", value: "45s", expected: MaxExecutionTimeout},
		{name: "zero", value: "0s", expected: MaxExecutionTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			v.Set("executor.timeout", tt.value)

			cfg := fromViper(v)
			assert.Equal(t, tt.expected, cfg.Executor.Timeout)
		})
	}
}

func TestFromViper_GraderKeyFallsBackToOpenAIEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, "sk-from-env", cfg.Grader.APIKey)

	v.Set("grader.api_key", "sk-from-config")
	cfg = fromViper(v)
	assert.Equal(t, "sk-from-config", cfg.Grader.APIKey)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{DB: DBConfig{
		Driver:   "pgx",
		Host:     "db",
		Port:     5432,
		User:     "pywhiz",
		Password: "secret",
		DBName:   "learn",
		SSLMode:  "disable",
	}}
	assert.Equal(t, "postgres://pywhiz:secret@db:5432/learn?sslmode=disable", cfg.GetDSN())

	cfg.DB = DBConfig{Driver: "sqlite3", Path: "/tmp/pywhiz.db"}
	assert.Equal(t, "file:/tmp/pywhiz.db?_foreign_keys=on&_busy_timeout=5000", cfg.GetDSN())
}
