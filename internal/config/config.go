package config

import (
	"github.com/spf13/viper"
)

var v *viper.Viper

// Init initializes the viper instance
func Init() {
	v = viper.New()
}

// Viper returns the viper instance
func Viper() *viper.Viper {
	return v
}

// Server configuration
type Server struct {
	HTTP HTTPConfig `mapstructure:"http" yaml:"http"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Log configuration
type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
	Path  string `mapstructure:"path" yaml:"path"`
	Debug bool   `mapstructure:"debug" yaml:"debug"`
}

// Skills configuration
type Skills struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Exec configuration for the execution API
type Exec struct {
	// MaxConcurrent bounds concurrent skill executions at the API layer.
	// The executor itself places no limit.
	MaxConcurrent int `mapstructure:"max_concurrent" yaml:"max_concurrent"`
}

// Config represents the application configuration
type Config struct {
	Server Server `mapstructure:"server" yaml:"server"`
	Log    Log    `mapstructure:"log" yaml:"log"`
	Skills Skills `mapstructure:"skills" yaml:"skills"`
	Exec   Exec   `mapstructure:"exec" yaml:"exec"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := Viper().Unmarshal(cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.HTTP.Addr == "" {
		cfg.Server.HTTP.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = "./log"
	}
	if cfg.Skills.Dir == "" {
		cfg.Skills.Dir = "./skills"
	}
	if cfg.Exec.MaxConcurrent <= 0 {
		cfg.Exec.MaxConcurrent = 8
	}

	return cfg, nil
}
