package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when no path is given. The
// first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/songscope/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "SONGSCOPE_CONFIG"

const envPrefix = "SONGSCOPE_"

func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Interactions: "data_and_model/data.csv",
			Catalog:      "data_and_model/songs.csv",
		},
		Model: ModelConfig{
			Dir:     "data_and_model/model",
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Host:           "",
			Port:           8080,
			AllowedOrigins: []string{"*"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Color:  true,
		},
	}
}

// Load layers defaults, the config file and the environment. It does not
// validate: callers apply their command-line overrides first and then call
// Validate. path may be empty, in which case SONGSCOPE_CONFIG and then
// DefaultConfigPaths are consulted. A missing file is not an error unless
// path was given explicitly.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.allowed_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps SONGSCOPE_-stripped, lowercased variable names to config
// paths. Unlisted variables are ignored.
var envMappings = map[string]string{
	"interactions": "data.interactions",
	"catalog":      "data.catalog",
	"snapshot":     "data.snapshot",

	"model_dir":     "model.dir",
	"model_timeout": "model.timeout",

	"host":            "server.host",
	"port":            "server.port",
	"allowed_origins": "server.allowed_origins",
	"read_timeout":    "server.read_timeout",
	"write_timeout":   "server.write_timeout",

	"s3_region":            "s3.region",
	"s3_endpoint":          "s3.endpoint",
	"s3_access_key_id":     "s3.access_key_id",
	"s3_secret_access_key": "s3.secret_access_key",
	"s3_path_style":        "s3.path_style",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
	"log_color":  "logging.color",
}

// envTransformFunc maps SONGSCOPE_MODEL_DIR to model.dir and so on.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return envMappings[key]
}
