package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreSQLite   = "sqlite"
)

// Config is everything the process reads from its environment.
type Config struct {
	Store       string
	StateTable  string
	SQLitePath  string
	ParamPrefix string

	MaxMessageLength     int
	MaxConversationTurns int
	TranscriptLimit      int

	ChatRatePerSecond float64
	ChatRateBurst     int

	LocalAddr string
	Debug     bool
}

// Load reads a .env file if present, then the process environment.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Store:                strings.ToLower(envString(getenv, "STORE", StoreDynamoDB)),
		StateTable:           strings.TrimSpace(getenv("STATE_TABLE")),
		SQLitePath:           envString(getenv, "SQLITE_PATH", "fitzone.db"),
		ParamPrefix:          strings.TrimRight(strings.TrimSpace(getenv("PARAM_PREFIX")), "/"),
		MaxMessageLength:     envInt(getenv, "MAX_MESSAGE_LENGTH", 300),
		MaxConversationTurns: envInt(getenv, "MAX_CONVERSATION_TURNS", 50),
		TranscriptLimit:      envInt(getenv, "TRANSCRIPT_LIMIT", 100),
		ChatRatePerSecond:    envFloat(getenv, "CHAT_RATE_PER_SECOND", 1),
		ChatRateBurst:        envInt(getenv, "CHAT_RATE_BURST", 5),
		LocalAddr:            strings.TrimSpace(getenv("LOCAL_ADDR")),
		Debug:                envBool(getenv, "DEBUG"),
	}

	if cfg.ParamPrefix == "" {
		return Config{}, errors.New("config: PARAM_PREFIX is required")
	}
	switch cfg.Store {
	case StoreDynamoDB:
		if cfg.StateTable == "" {
			return Config{}, errors.New("config: STATE_TABLE is required when STORE=dynamodb")
		}
	case StoreSQLite:
	default:
		return Config{}, fmt.Errorf("config: unknown STORE %q", cfg.Store)
	}
	return cfg, nil
}

func envString(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt falls back to def when the value is unset, malformed or not positive.
func envInt(getenv func(string) string, key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(getenv(key)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envFloat(getenv func(string) string, key string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(getenv(key)), 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func envBool(getenv func(string) string, key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(getenv(key)))
	return b
}
