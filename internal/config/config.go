package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Target  TargetConfig  `mapstructure:"target"`
	Monitor MonitorConfig `mapstructure:"monitor"`
}

type TargetConfig struct {
	Path      string `mapstructure:"path"`
	SourceDir string `mapstructure:"source_dir"`
	TestEntry string `mapstructure:"test_entry"`
	Report    string `mapstructure:"report"`
}

type MonitorConfig struct {
	Iterations      int `mapstructure:"iterations"`
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

var cfg *Config

func InitConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "secmon"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("")
	viper.BindEnv("target.path", "SECMON_TARGET")
	viper.BindEnv("target.source_dir", "SECMON_SOURCE_DIR")
	viper.BindEnv("target.test_entry", "SECMON_TEST_ENTRY")
	viper.BindEnv("target.report", "SECMON_REPORT")
	viper.BindEnv("monitor.iterations", "SECMON_ITERATIONS")
	viper.BindEnv("monitor.interval_seconds", "SECMON_INTERVAL")

	viper.SetDefault("target.path", ".")
	viper.SetDefault("target.source_dir", "telegram_api")
	viper.SetDefault("target.test_entry", "tests/test_basic.py")
	viper.SetDefault("target.report", "bandit_report.json")
	viper.SetDefault("monitor.iterations", 4)
	viper.SetDefault("monitor.interval_seconds", 600)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func Get() *Config {
	if cfg == nil {
		InitConfig("")
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Monitor.Iterations < 1 {
		return fmt.Errorf("monitor iterations must be at least 1, got %d", c.Monitor.Iterations)
	}
	if c.Monitor.IntervalSeconds < 0 {
		return fmt.Errorf("monitor interval must not be negative, got %d", c.Monitor.IntervalSeconds)
	}
	return nil
}

// Interval returns the pause between rounds.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Monitor.IntervalSeconds) * time.Second
}

func (c *Config) GetTargetPath() string {
	if c.Target.Path != "" {
		return c.Target.Path
	}
	return "."
}

func (c *Config) GetSourceDir() string {
	if c.Target.SourceDir != "" {
		return c.Target.SourceDir
	}
	return "telegram_api"
}

func (c *Config) GetTestEntry() string {
	if c.Target.TestEntry != "" {
		return c.Target.TestEntry
	}
	return "tests/test_basic.py"
}

func (c *Config) GetReport() string {
	if c.Target.Report != "" {
		return c.Target.Report
	}
	return "bandit_report.json"
}
