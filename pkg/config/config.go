/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the riegeli tool configuration
type Config struct {
	Records Records `yaml:"records"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
}

// Records contains record file writing defaults
type Records struct {
	Codec      string `yaml:"codec"`       // none, snappy, zstd or gzip
	ChunkSize  int    `yaml:"chunk_size"`  // target uncompressed chunk payload size
	BufferSize int    `yaml:"buffer_size"` // file write buffer size
}

// Server contains HTTP server configuration
type Server struct {
	Port int    `yaml:"port"`
	Bind string `yaml:"bind"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Records: Records{
			Codec:     "zstd",
			ChunkSize: 1 << 20,
		},
		Server: Server{
			Port: 8080,
			Bind: "127.0.0.1",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	// Resolve a relative path to an absolute one
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "riegeli.yaml"
	}
	return filepath.Join(homeDir, ".config", "riegeli", "config.yaml")
}
