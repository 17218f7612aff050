package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const defaultAdminPIN = "0000"

// Config holds process configuration sourced from the environment.
type Config struct {
	Port     string
	AdminPIN string
}

// Load reads .env when present and falls back to defaults for anything
// unset.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	cfg := Config{
		Port:     os.Getenv("APP_PORT"),
		AdminPIN: os.Getenv("ADMIN_PIN"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.AdminPIN == "" {
		cfg.AdminPIN = defaultAdminPIN
		logrus.Warn("ADMIN_PIN not set, using the simulation default")
	}
	return cfg
}
