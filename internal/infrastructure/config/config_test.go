package config_test

import (
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paesprep/backend/internal/infrastructure/config"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadPolicy_OverridesDefaults(t *testing.T) {
	path := writePolicy(t, `
exam:
  max_questions: 80
explain_daily_limit: 10
prices:
  monthly: 4990
`)
	p, err := config.LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, 80, p.Exam.MaxQuestions)
	assert.Equal(t, 15, p.Exam.MinDuration)
	assert.Equal(t, 10, p.ExplainDailyLimit)
	assert.Equal(t, "America/Santiago", p.StreakTimezone)
	assert.Equal(t, 4990, p.Prices["monthly"])
}

func TestLoadPolicy_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad duration bounds": "exam:\n  min_duration_minutes: 400\n",
		"bad timezone":        "streak_timezone: Mars/Olympus\n",
		"not yaml":            "exam: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadPolicy(writePolicy(t, body))
			assert.Error(t, err)
		})
	}

	_, err := config.LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("EXPLAIN_DAILY_LIMIT", "7")

	cfg := config.Load("")
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 7, cfg.Policy.ExplainDailyLimit)
	assert.Equal(t, "json", cfg.LogFormat)
}
