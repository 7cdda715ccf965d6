// Package cfg loads service configuration from a YAML file or environment
// variables, with env values taking precedence over the file.
package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the fully resolved service configuration.
type Settings struct {
	ListenPort    int
	MetricsPort   int
	ArtifactsPath string
	DataPath      string // empty disables the prediction audit log
	CORSOrigin    string
	LogLevel      string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// ConfigFile is the YAML layout of the config file.
type ConfigFile struct {
	Server struct {
		Port         int    `yaml:"port"`
		CORSOrigin   string `yaml:"corsOrigin"`
		ReadTimeout  string `yaml:"readTimeout"`
		WriteTimeout string `yaml:"writeTimeout"`
	} `yaml:"server"`

	Model struct {
		ArtifactsPath string `yaml:"artifactsPath"`
	} `yaml:"model"`

	System struct {
		DataPath    string `yaml:"dataPath"`
		MetricsPort int    `yaml:"metricsPort"`
		LogLevel    string `yaml:"logLevel"`
	} `yaml:"system"`
}

// Load resolves settings from CONFIG_FILE when set, falling back to
// environment variables with built-in defaults.
func Load() (Settings, error) {
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	settings := Settings{
		ListenPort:    getIntFromEnvOrConfig("PORT", config.Server.Port, 5000),
		MetricsPort:   getIntFromEnvOrConfig("METRICS_PORT", config.System.MetricsPort, 9090),
		ArtifactsPath: getEnvOrDefault("ARTIFACTS_PATH", orDefault(config.Model.ArtifactsPath, "model/artifacts")),
		DataPath:      getEnvOrDefault("DATA_PATH", config.System.DataPath),
		CORSOrigin:    getEnvOrDefault("CORS_ORIGIN", orDefault(config.Server.CORSOrigin, "*")),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", orDefault(config.System.LogLevel, "info")),
		ReadTimeout:   getDurationFromEnvOrConfig("READ_TIMEOUT", config.Server.ReadTimeout, 10*time.Second),
		WriteTimeout:  getDurationFromEnvOrConfig("WRITE_TIMEOUT", config.Server.WriteTimeout, 10*time.Second),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		ListenPort:    getIntOrDefault("PORT", 5000),
		MetricsPort:   getIntOrDefault("METRICS_PORT", 9090),
		ArtifactsPath: getEnvOrDefault("ARTIFACTS_PATH", "model/artifacts"),
		DataPath:      os.Getenv("DATA_PATH"), // optional
		CORSOrigin:    getEnvOrDefault("CORS_ORIGIN", "*"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		ReadTimeout:   getDurationOrDefault("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:  getDurationOrDefault("WRITE_TIMEOUT", 10*time.Second),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func orDefault(v, defaultValue string) string {
	if v != "" {
		return v
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getDurationFromEnvOrConfig(key, configValue string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	if configValue != "" {
		if d, err := time.ParseDuration(configValue); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

// validateSettings performs range checks on all configuration values.
func validateSettings(settings *Settings) error {
	if settings.ListenPort < 1 || settings.ListenPort > 65535 {
		return fmt.Errorf("listen port must be between 1 and 65535, got %d", settings.ListenPort)
	}
	if settings.MetricsPort < 1 || settings.MetricsPort > 65535 {
		return fmt.Errorf("metrics port must be between 1 and 65535, got %d", settings.MetricsPort)
	}
	if settings.ListenPort == settings.MetricsPort {
		return fmt.Errorf("listen port and metrics port must differ, both are %d", settings.ListenPort)
	}
	if settings.ArtifactsPath == "" {
		return fmt.Errorf("artifacts path cannot be empty")
	}
	if settings.ReadTimeout < time.Second || settings.ReadTimeout > time.Minute {
		return fmt.Errorf("read timeout must be between 1s and 1m, got %v", settings.ReadTimeout)
	}
	if settings.WriteTimeout < time.Second || settings.WriteTimeout > time.Minute {
		return fmt.Errorf("write timeout must be between 1s and 1m, got %v", settings.WriteTimeout)
	}
	switch settings.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", settings.LogLevel)
	}
	return nil
}
