// Package config loads SongScope settings from defaults, an optional YAML
// file and SONGSCOPE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/himanishpuri/SongScope/pkg/logger"
	"github.com/himanishpuri/SongScope/pkg/songscope/blob"
)

type Config struct {
	Data    DataConfig    `koanf:"data"`
	Model   ModelConfig   `koanf:"model"`
	Server  ServerConfig  `koanf:"server"`
	S3      blob.S3Config `koanf:"s3"`
	Logging LoggingConfig `koanf:"logging"`
}

// DataConfig points at the two tables. A snapshot, when set, replaces both
// CSV sources.
type DataConfig struct {
	Interactions string `koanf:"interactions" validate:"required_without=Snapshot"`
	Catalog      string `koanf:"catalog" validate:"required_without=Snapshot"`
	Snapshot     string `koanf:"snapshot"`
}

type ModelConfig struct {
	Dir     string        `koanf:"dir" validate:"required"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

type ServerConfig struct {
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port" validate:"min=1,max=65535"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn warning error fatal DEBUG INFO WARN WARNING ERROR FATAL"`
	Format string `koanf:"format" validate:"oneof=console json"`
	Caller bool   `koanf:"caller"` // add the file:line of the log call
	Color  bool   `koanf:"color"`  // console format only
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and returns one error naming every
// offending field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoggerConfig translates the logging section into a logger.Config.
func (c *Config) LoggerConfig() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = logger.ParseLevel(c.Logging.Level)
	lc.Format = c.Logging.Format
	lc.ShowCaller = c.Logging.Caller
	lc.Colorize = c.Logging.Color
	return lc
}
