// Package config loads taskflow settings from defaults, an optional YAML
// file, a .env file and TASKFLOW_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the merged application configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

type RedisConfig struct {
	Addr    string        `mapstructure:"addr" yaml:"addr"`
	Prefix  string        `mapstructure:"prefix" yaml:"prefix"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"` // empty = <state dir>/taskflow.log
}

// DBPath returns the sqlite database file location
func (c *Config) DBPath() string {
	return filepath.Join(c.Storage.DataDir, "taskflow.db")
}

// LogPath returns the log file location
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(DefaultStateDir(), "taskflow.log")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.data_dir", DefaultDataDir())
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.prefix", "taskflow:")
	v.SetDefault("redis.timeout", 2*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load merges configuration. An empty path means DefaultPath; a missing
// default file is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	// .env only fills variables that are not already set
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TASKFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil || explicit {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/taskflow/config.yaml
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "taskflow", "config.yaml")
}

// DefaultDataDir returns the XDG data directory for taskflow
func DefaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "taskflow")
}

// DefaultStateDir returns the XDG state directory for taskflow
func DefaultStateDir() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "taskflow")
}
