package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		Title            string `yaml:"title"`
		EmailDomain      string `yaml:"email_domain"`
		ExpiresAt        string `yaml:"expires_at"` // RFC3339
		QuestionsPerQuiz int    `yaml:"questions_per_quiz"`
		PointsPerCorrect int    `yaml:"points_per_correct"`
		PassScore        int    `yaml:"pass_score"`
		CacheTTL         string `yaml:"cache_ttl"`
		LockTimeout      string `yaml:"lock_timeout"`
	} `yaml:"quiz"`
	SMTP struct {
		Host       string `yaml:"host"`
		Port       int    `yaml:"port"`
		Username   string `yaml:"username"`
		Password   string `yaml:"password"`
		From       string `yaml:"from"`
		ReplyTo    string `yaml:"reply_to"`
		SenderName string `yaml:"sender_name"`
	} `yaml:"smtp"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if the value
// is empty or malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Time parses an RFC3339 instant or returns the fallback.
func Time(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return fallback
}
