// Package config reads the server environment.
package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

var ErrMissingJWTKey = errors.New("missing JWT_KEY")

type Config struct {
	Addr           string
	AllowedOrigins []string
	JWTKey         string
	TokenAge       time.Duration
	ReportURL      string
	Debug          bool
}

// FromEnv builds the server config. JWT_KEY is the only required variable;
// everything else has a workable default.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:           ":5000",
		AllowedOrigins: []string{"http://localhost:3000"},
		TokenAge:       time.Hour * 24 * 7,
	}

	if addr, ok := os.LookupEnv("ADDR"); ok {
		cfg.Addr = addr
	}
	if origins, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}
	key, ok := os.LookupEnv("JWT_KEY")
	if !ok || key == "" {
		return cfg, ErrMissingJWTKey
	}
	cfg.JWTKey = key

	cfg.ReportURL = os.Getenv("REPORT_URL")
	cfg.Debug = os.Getenv("DEBUG") == "true"
	return cfg, nil
}
