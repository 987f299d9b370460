package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// MailConfig holds the IMAP account used to fetch unread messages.
type MailConfig struct {
	// Address is the account's email address and IMAP username.
	Address string `mapstructure:"address" yaml:"address"`

	// Password is the account or app password. When empty it is read
	// from the system keyring.
	Password string `mapstructure:"password" yaml:"password,omitempty"`

	IMAPHost string `mapstructure:"imap_host" yaml:"imap_host"`
	IMAPPort int    `mapstructure:"imap_port" yaml:"imap_port"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`

	// Mailbox is the folder searched for unread mail.
	Mailbox string `mapstructure:"mailbox" yaml:"mailbox"`

	// FetchLimit caps how many unread messages are fetched at once.
	FetchLimit int `mapstructure:"fetch_limit" yaml:"fetch_limit"`
}

// Validate checks that the account is usable for fetching.
func (c MailConfig) Validate() error {
	if c.Address == "" || !strings.Contains(c.Address, "@") {
		return fmt.Errorf("invalid email address %q", c.Address)
	}
	if c.Password == "" {
		return errors.New("mail password is required")
	}
	return nil
}

// OllamaConfig holds settings for the local generation backend.
type OllamaConfig struct {
	Host        string  `mapstructure:"host" yaml:"host"`
	Model       string  `mapstructure:"model" yaml:"model"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`

	// TimeoutSec bounds a single categorization call. Zero means no limit.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// StoreConfig locates the bucket database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	// PollIntervalSec enables periodic inbox refresh when positive.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration. It is loaded once
// at startup and passed to each component's constructor.
type AppConfig struct {
	Mail    MailConfig    `mapstructure:"mail" yaml:"mail"`
	Ollama  OllamaConfig  `mapstructure:"ollama" yaml:"ollama"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// Default backend and mail settings.
const (
	DefaultOllamaHost  = "http://localhost:11434"
	DefaultOllamaModel = "phi3.5"
	DefaultTemperature = 0.1
	DefaultIMAPHost    = "imap.gmail.com"
	DefaultIMAPPort    = 993
	DefaultMailbox     = "INBOX"
	DefaultFetchLimit  = 50

	storeFileName = "buckets.db"
)

// envBindings maps config keys to the environment variables that override
// them, in addition to the MAILBUCKETS_ prefixed automatic bindings.
var envBindings = map[string]string{
	"mail.address":  "GMAIL_EMAIL",
	"mail.password": "GMAIL_APP_PASSWORD",
	"ollama.host":   "OLLAMA_HOST",
	"ollama.model":  "OLLAMA_MODEL",
}

// FlagBindings maps config keys to the command-line flags that override
// them. Flags missing from the set passed to LoadConfig are ignored.
var FlagBindings = map[string]string{
	"ollama.host":      "ollama-host",
	"ollama.model":     "model",
	"mail.fetch_limit": "limit",
	"log.level":        "log-level",
}

// ConfigDir returns ~/.config/mailbuckets, or the working directory when
// the home directory cannot be determined.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "mailbuckets")
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Mail: MailConfig{
			IMAPHost:   DefaultIMAPHost,
			IMAPPort:   DefaultIMAPPort,
			TLS:        true,
			Mailbox:    DefaultMailbox,
			FetchLimit: DefaultFetchLimit,
		},
		Ollama: OllamaConfig{
			Host:        DefaultOllamaHost,
			Model:       DefaultOllamaModel,
			Temperature: DefaultTemperature,
		},
		Store: StoreConfig{
			Path: filepath.Join(ConfigDir(), storeFileName),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(ConfigDir(), "mailbuckets.log"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper
// and applies environment overrides, then any changed flags in flags (which
// may be nil). A missing file is not an error.
func LoadConfig(path string, flags *pflag.FlagSet) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := DefaultAppConfig()
	v.SetDefault("mail.imap_host", def.Mail.IMAPHost)
	v.SetDefault("mail.imap_port", def.Mail.IMAPPort)
	v.SetDefault("mail.tls", def.Mail.TLS)
	v.SetDefault("mail.mailbox", def.Mail.Mailbox)
	v.SetDefault("mail.fetch_limit", def.Mail.FetchLimit)
	v.SetDefault("ollama.host", def.Ollama.Host)
	v.SetDefault("ollama.model", def.Ollama.Model)
	v.SetDefault("ollama.temperature", def.Ollama.Temperature)
	v.SetDefault("ollama.timeout_sec", 0)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("display.poll_interval_sec", 0)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)

	v.SetEnvPrefix("mailbuckets")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, "MAILBUCKETS_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if flags != nil {
		for key, name := range FlagBindings {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// CHROMA_PERSIST_DIRECTORY names the directory holding the database.
	if dir := os.Getenv("CHROMA_PERSIST_DIRECTORY"); dir != "" {
		cfg.Store.Path = filepath.Join(dir, storeFileName)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed. The mail password is never
// written; it belongs in the keyring.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	mail := cfg.Mail
	mail.Password = ""

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("mail", mail)
	v.Set("ollama", cfg.Ollama)
	v.Set("store", cfg.Store)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
