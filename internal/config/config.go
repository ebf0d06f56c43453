// Package config loads the swapi-browser configuration from defaults, an
// optional YAML file, SWAPI_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Sternrassler/swapi-browser/pkg/client"
	"github.com/Sternrassler/swapi-browser/pkg/logging"
	"github.com/Sternrassler/swapi-browser/pkg/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// AppName is used for the config file name, directories and env prefix.
const AppName = "swapi-browser"

// EnvPrefix is prepended to every environment variable (SWAPI_CLIENT_BASE_URL).
const EnvPrefix = "swapi"

// Config is the full application configuration.
type Config struct {
	Client     ClientConfig     `mapstructure:"client" yaml:"client"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Pagination PaginationConfig `mapstructure:"pagination" yaml:"pagination"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-" yaml:"-"`
}

// ClientConfig configures the data access client.
type ClientConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
}

// ServerConfig configures the web UI.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"required"`
	// SSL enables HTTPS redirects and HSTS headers; leave off behind a TLS-terminating proxy.
	SSL bool `mapstructure:"ssl" yaml:"ssl"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn warning error"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// PaginationConfig configures the batch fetcher used for --all.
type PaginationConfig struct {
	MaxConcurrency int           `mapstructure:"max_concurrency" yaml:"max_concurrency" validate:"min=1,max=32"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
}

// Defaults returns the default value of every config key.
func Defaults() map[string]any {
	pg := pagination.DefaultConfig()
	return map[string]any{
		"client.base_url":            client.DefaultBaseURL,
		"client.user_agent":          client.DefaultUserAgent,
		"client.timeout":             client.DefaultTimeout,
		"server.addr":                ":8081",
		"server.ssl":                 false,
		"log.level":                  string(logging.LevelInfo),
		"log.pretty":                 false,
		"pagination.max_concurrency": pg.MaxConcurrency,
		"pagination.timeout":         pg.Timeout,
	}
}

// FlagKeys maps command-line flag names to config keys. Flags that are not
// defined on the command are skipped.
var FlagKeys = map[string]string{
	"base-url":    "client.base_url",
	"user-agent":  "client.user_agent",
	"timeout":     "client.timeout",
	"addr":        "server.addr",
	"ssl":         "server.ssl",
	"log-level":   "log.level",
	"log-pretty":  "log.pretty",
	"concurrency": "pagination.max_concurrency",
}

// getConfigDir returns the user or system configuration directory.
func getConfigDir(system bool) (string, error) {
	if system {
		switch runtime.GOOS {
		case "windows":
			return filepath.Join(os.Getenv("ProgramData"), AppName), nil
		default:
			return filepath.Join("/etc", AppName), nil
		}
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultPath is where `config write` puts the file when no path is given.
func DefaultPath() (string, error) {
	dir, err := getConfigDir(false)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".yaml"), nil
}

// Load builds the configuration. Precedence, highest first: flags set on cmd,
// SWAPI_* environment variables, the config file, defaults. configFile may be
// empty, in which case swapi-browser.yaml is searched in the user config
// directory, the system config directory and the working directory.
// A missing file is not an error unless it was named explicitly.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName(AppName)
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if dir, err := getConfigDir(false); err == nil {
		v.AddConfigPath(dir)
	}
	if dir, err := getConfigDir(true); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)

	if cmd != nil {
		for name, key := range FlagKeys {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Source = v.ConfigFileUsed()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

// ToClient converts the client section into a client.Config.
func (c *Config) ToClient() client.Config {
	return client.Config{
		BaseURL:   c.Client.BaseURL,
		UserAgent: c.Client.UserAgent,
		Timeout:   c.Client.Timeout,
	}
}

// ToLogging converts the log section into a logging.Config writing to stderr.
func (c *Config) ToLogging() logging.Config {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		cfg.Level = level
	}
	cfg.Pretty = c.Log.Pretty
	return cfg
}

// ToPagination converts the pagination section into a pagination.Config.
func (c *Config) ToPagination() pagination.Config {
	return pagination.Config{
		MaxConcurrency: c.Pagination.MaxConcurrency,
		Timeout:        c.Pagination.Timeout,
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Write stores the configuration as YAML at path, creating parent directories.
func Write(c *Config, path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
