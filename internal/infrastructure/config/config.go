package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/paesprep/backend/internal/domain/exam"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Storage
	DBDriver    string // "sqlite" or "postgres"
	DatabaseURL string // postgres DSN
	SQLitePath  string

	// Auth provider
	JWTSecret   string
	JWTAudience string

	// AI explanations
	LLMURL    string // OpenAI-compatible endpoint, e.g. "https://api.openai.com"
	LLMAPIKey string
	LLMModel  string

	// Webpay
	TBKEnvironment  string // "integration" or "production"
	TBKCommerceCode string
	TBKAPIKey       string

	AppURL    string // front-end, where buyers land after paying
	PublicURL string // this API as seen by the payment gateway

	LogFormat string // "json" or "pretty"
	LogLevel  string

	Policy Policy
}

// Policy is product tuning that rarely changes between deployments. It has
// defaults, may come from a YAML file, and a few keys can be overridden by
// environment variables.
type Policy struct {
	Exam              exam.Limits    `yaml:"exam"`
	ExplainDailyLimit int            `yaml:"explain_daily_limit"`
	ExplainWorkers    int            `yaml:"explain_workers"`
	StreakTimezone    string         `yaml:"streak_timezone"`
	Prices            map[string]int `yaml:"prices"` // plan → CLP
}

func DefaultPolicy() Policy {
	return Policy{
		Exam:              exam.DefaultLimits(),
		ExplainDailyLimit: 5,
		ExplainWorkers:    3,
		StreakTimezone:    "America/Santiago",
		Prices:            map[string]int{"monthly": 9990, "annual": 79990},
	}
}

// Load reads .env, the environment and, when policyPath is set, a YAML
// policy file. Missing required keys are fatal.
func Load(policyPath string) *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	policy := DefaultPolicy()
	if policyPath != "" {
		p, err := LoadPolicy(policyPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		policy = *p
	}
	policy.ExplainDailyLimit = getenvInt("EXPLAIN_DAILY_LIMIT", policy.ExplainDailyLimit)
	policy.StreakTimezone = getenvDefault("STREAK_TIMEZONE", policy.StreakTimezone)

	return &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBDriver:        getenvDefault("DB_DRIVER", "sqlite"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getenvDefault("SQLITE_PATH", "paes.db"),
		JWTSecret:       mustGetenv("JWT_SECRET"),
		JWTAudience:     getenvDefault("JWT_AUDIENCE", "authenticated"),
		LLMURL:          getenvDefault("LLM_URL", "https://api.openai.com"),
		LLMAPIKey:       os.Getenv("LLM_API_KEY"),
		LLMModel:        getenvDefault("LLM_MODEL", "gpt-4o-mini"),
		TBKEnvironment:  getenvDefault("TBK_ENVIRONMENT", "integration"),
		TBKCommerceCode: os.Getenv("TBK_COMMERCE_CODE"),
		TBKAPIKey:       os.Getenv("TBK_API_KEY"),
		AppURL:          getenvDefault("APP_URL", "http://localhost:3000"),
		PublicURL:       getenvDefault("PUBLIC_URL", "http://localhost:8080"),
		LogFormat:       getenvDefault("LOG_FORMAT", "json"),
		LogLevel:        getenvDefault("LOG_LEVEL", "info"),
		Policy:          policy,
	}
}

// LoadPolicy decodes a YAML policy file over the defaults.
func LoadPolicy(filename string) (*Policy, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open policy: %w", err)
	}
	defer f.Close()

	p := DefaultPolicy()
	if err := yaml.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode policy %s: %w", filename, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("policy %s: %w", filename, err)
	}
	return &p, nil
}

func (p *Policy) Validate() error {
	l := p.Exam
	switch {
	case l.MaxTitleLength < 1:
		return fmt.Errorf("exam.max_title_length must be positive")
	case l.MinDuration < 1 || l.MinDuration > l.MaxDuration:
		return fmt.Errorf("exam duration bounds %d-%d are invalid", l.MinDuration, l.MaxDuration)
	case l.MinQuestions < 1 || l.MinQuestions > l.MaxQuestions:
		return fmt.Errorf("exam question bounds %d-%d are invalid", l.MinQuestions, l.MaxQuestions)
	case p.ExplainDailyLimit < 0:
		return fmt.Errorf("explain_daily_limit cannot be negative")
	}
	if _, err := time.LoadLocation(p.StreakTimezone); err != nil {
		return fmt.Errorf("streak_timezone: %w", err)
	}
	return nil
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not an integer: %v", k, v, err)
	}
	return n
}
