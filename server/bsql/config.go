package bsql

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host              string `yaml:"host"`
	Port              string `yaml:"port"`
	Username          string `yaml:"username"`
	Password          string `yaml:"password"`
	Database          string `yaml:"database"`
	SSLMode           string `yaml:"sslmode"`
	MaxIdleConnection int    `yaml:"maxIdleConnection"`
	MaxOpenConnection int    `yaml:"maxOpenConnection"`
}

// LoadDatabaseConfig loads database configuration from yaml file
func LoadDatabaseConfig(path string) (*DatabaseConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database config file: %w", err)
	}

	var config DatabaseConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse database config file: %w", err)
	}
	config.SetDefaults()

	return &config, nil
}

func (config *DatabaseConfig) SetDefaults() {
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == "" {
		config.Port = "5432"
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}
	if config.MaxIdleConnection == 0 {
		config.MaxIdleConnection = 10
	}
	if config.MaxOpenConnection == 0 {
		config.MaxOpenConnection = 20
	}
}

// OpenFromConfig opens database from config file
func OpenFromConfig(configPath string) (*DB, error) {
	config, err := LoadDatabaseConfig(configPath)
	if err != nil {
		return nil, err
	}
	return Open(config)
}
