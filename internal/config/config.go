package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StageDev  = "dev"
	StageProd = "prod"

	DefaultPort = 8000
)

var ErrInvalidStage = errors.New("stage must be either dev or prod")

type Config struct {
	Stage         string
	Port          int
	DatabaseUrl   string
	RedisAddr     string
	RedisPassword string
	RulesFile     string
	LogLevel      string
}

// Load reads the environment. Outside of prod the variables in envFiles
// are loaded first; missing files are ignored.
func Load(envFiles ...string) (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if len(envFiles) == 0 {
			envFiles = []string{".env"}
		}
		for _, f := range envFiles {
			if _, err := os.Stat(f); err != nil {
				continue
			}
			if err := godotenv.Load(f); err != nil {
				return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
			}
		}
	}

	cfg := Config{
		Stage:         os.Getenv("STAGE"),
		Port:          DefaultPort,
		DatabaseUrl:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RulesFile:     os.Getenv("RULES_FILE"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}

	if cfg.Stage == "" {
		cfg.Stage = StageDev
	}
	if cfg.Stage != StageDev && cfg.Stage != StageProd {
		return Config{}, ErrInvalidStage
	}

	if portEnv := os.Getenv("PORT"); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid port %q", portEnv)
		}
		cfg.Port = port
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
