package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all HealthMate configuration. The scoring and conversation
// sections are loaded once at startup and shared read-only across sessions.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Session      SessionConfig      `yaml:"session"`
	Database     DatabaseConfig     `yaml:"database"`
	OpenAI       OpenAIConfig       `yaml:"openai"`
	Telegram     TelegramConfig     `yaml:"telegram"`
	Scoring      ScoringConfig      `yaml:"scoring"`
	Conversation ConversationConfig `yaml:"conversation"`
	Retrieval    RetrievalConfig    `yaml:"retrieval"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// SessionConfig selects the live-session store driver.
type SessionConfig struct {
	Driver    string        `yaml:"driver"` // memory, redis
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

// DatabaseConfig configures the optional Postgres archive of completed sessions.
type DatabaseConfig struct {
	DSN            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

// OpenAIConfig configures the report narrative writer.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// TelegramConfig configures red-tier report dispatch to the on-call clinician.
type TelegramConfig struct {
	BotToken     string `yaml:"bot_token"`
	OnCallChatID int64  `yaml:"on_call_chat_id"`
}

// ScoringConfig holds the risk-scoring weight tables and tier thresholds.
type ScoringConfig struct {
	// Component weights. Must sum to 1.
	SymptomSeverityWeight float64 `yaml:"symptom_severity_weight"`
	ChronicDiseaseWeight  float64 `yaml:"chronic_disease_weight"`
	SymptomCountWeight    float64 `yaml:"symptom_count_weight"`
	DurationWeight        float64 `yaml:"duration_weight"`

	// Additive bonus per accumulated red flag.
	RedFlagWeight float64 `yaml:"red_flag_weight"`

	// Tier cutoffs on the clamped [0,1] score.
	YellowThreshold float64 `yaml:"yellow_threshold"`
	RedThreshold    float64 `yaml:"red_threshold"`

	// Pattern-match confidence below this floor escalates the tier one level.
	ConfidenceFloor float64 `yaml:"confidence_floor"`

	// Self-reported pain at or above this, combined with a qualifying
	// symptom, is treated as an emergency trigger.
	EmergencyPainThreshold float64 `yaml:"emergency_pain_threshold"`
}

// ConversationConfig bounds the dialogue engine.
type ConversationConfig struct {
	// Re-prompts allowed per stage before accepting a best-effort parse.
	RepromptLimit int `yaml:"reprompt_limit"`
}

// RetrievalConfig configures the knowledge retriever.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// DefaultConfig returns the tuned defaults. Scoring values mirror the
// validated triage tables and are overridable per deployment.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Session: SessionConfig{
			Driver: "memory",
			TTL:    24 * time.Hour,
		},
		Database: DatabaseConfig{
			MigrationsPath: "file://migrations",
		},
		OpenAI: OpenAIConfig{Model: "gpt-4o-mini"},
		Scoring: ScoringConfig{
			SymptomSeverityWeight:  0.4,
			ChronicDiseaseWeight:   0.3,
			SymptomCountWeight:     0.15,
			DurationWeight:         0.15,
			RedFlagWeight:          0.05,
			YellowThreshold:        0.33,
			RedThreshold:           0.66,
			ConfidenceFloor:        0.4,
			EmergencyPainThreshold: 9,
		},
		Conversation: ConversationConfig{RepromptLimit: 2},
		Retrieval:    RetrievalConfig{TopK: 3},
	}
}

// Load reads the YAML config at path (optional), applies environment
// overrides, and validates the result. A missing file is not an error;
// defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Session.Driver = "redis"
		cfg.Session.RedisAddr = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
}

// Validate checks the scoring tables. A failure here is fatal at startup:
// the process must not serve triage with a malformed rule set.
func (c *Config) Validate() error {
	s := c.Scoring
	sum := s.SymptomSeverityWeight + s.ChronicDiseaseWeight + s.SymptomCountWeight + s.DurationWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1, got %.3f", sum)
	}
	if s.YellowThreshold <= 0 || s.RedThreshold <= s.YellowThreshold || s.RedThreshold > 1 {
		return fmt.Errorf("tier thresholds must satisfy 0 < yellow < red <= 1, got yellow=%.2f red=%.2f",
			s.YellowThreshold, s.RedThreshold)
	}
	if s.ConfidenceFloor < 0 || s.ConfidenceFloor > 1 {
		return fmt.Errorf("confidence floor must be in [0,1], got %.2f", s.ConfidenceFloor)
	}
	if s.RedFlagWeight < 0 {
		return fmt.Errorf("red flag weight must be non-negative, got %.2f", s.RedFlagWeight)
	}
	if c.Conversation.RepromptLimit < 0 {
		return fmt.Errorf("reprompt limit must be non-negative, got %d", c.Conversation.RepromptLimit)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top_k must be positive, got %d", c.Retrieval.TopK)
	}
	switch c.Session.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown session driver %q", c.Session.Driver)
	}
	return nil
}
