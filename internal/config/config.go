// Package config loads roster settings from ROSTER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"roster/internal/infra/blob/s3"
	"roster/internal/infra/snapshot"
	"roster/pkg/domain"
)

// Config is the full runtime configuration.
type Config struct {
	Driver       string `env:"ROSTER_SNAPSHOT_DRIVER" envDefault:"file" validate:"oneof=file memory sqlite postgres s3 blob-memory"`
	Path         string `env:"ROSTER_SNAPSHOT_PATH" envDefault:"people.json" validate:"required_if=Driver file"`
	SQLitePath   string `env:"ROSTER_SQLITE_PATH" envDefault:"roster.db" validate:"required_if=Driver sqlite"`
	PostgresDSN  string `env:"ROSTER_POSTGRES_DSN" validate:"required_if=Driver postgres"`
	SeedDefaults bool   `env:"ROSTER_SEED_DEFAULTS" envDefault:"true"`
	LogLevel     string `env:"ROSTER_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat    string `env:"ROSTER_LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	S3           S3     `envPrefix:"ROSTER_S3_"`
}

// S3 configures the object-storage driver.
type S3 struct {
	Bucket          string `env:"BUCKET"`
	Region          string `env:"REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"ENDPOINT" validate:"omitempty,url"`
	PathStyle       bool   `env:"PATH_STYLE"`
	Key             string `env:"KEY" envDefault:"people.json"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	SessionToken    string `env:"SESSION_TOKEN"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints, including the settings the selected
// driver requires.
func (c Config) Validate() error {
	if err := domain.Validator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Driver == string(snapshot.DriverS3) && c.S3.Bucket == "" {
		return errors.New("invalid config: ROSTER_S3_BUCKET is required for the s3 driver")
	}
	return nil
}

// SnapshotOptions maps the configuration onto the gateway factory.
func (c Config) SnapshotOptions() snapshot.Options {
	return snapshot.Options{
		Driver:      snapshot.Driver(c.Driver),
		Path:        c.Path,
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.PostgresDSN,
		Key:         c.S3.Key,
		S3: s3.Config{
			Region:          c.S3.Region,
			Bucket:          c.S3.Bucket,
			Endpoint:        c.S3.Endpoint,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			SessionToken:    c.S3.SessionToken,
			PathStyle:       c.S3.PathStyle,
		},
	}
}

// SlogLevel converts LogLevel for log/slog. Unknown values map to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
