// Package config resolves gemchat settings from flags, a config file, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvAPIKey is the environment variable holding the Gemini API key.
const EnvAPIKey = "GEMINI_API_KEY"

// ErrMissingAPIKey is returned by Load when no API key is configured.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " environment variable not set")

// Viper keys.
const (
	KeyAPIKey       = "api-key"
	KeyModel        = "model"
	KeyModels       = "models"
	KeyHistoryFile  = "history-file"
	KeyFeedbackFile = "feedback-file"
	KeyStream       = "stream"
	KeySystemPrompt = "system-prompt"
	KeyTemperature  = "temperature"
	KeyBaseURL      = "base-url"
	KeyDebug        = "debug"
)

// configName is the config file base name searched in . and $HOME.
const configName = ".gemchat"

// Settings is the resolved configuration for one chat session.
type Settings struct {
	APIKey       string
	Model        string
	Models       []string
	HistoryFile  string
	FeedbackFile string
	Stream       bool
	SystemPrompt string
	// Temperature is nil when the model default should be used.
	Temperature *float32
	BaseURL     string
	Debug       bool
}

// SetDefaults registers defaults for keys that are not bound to a flag.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyHistoryFile, "chat_history.txt")
	v.SetDefault(KeyFeedbackFile, "feedback.txt")
}

// LoadDotEnv loads path (".env" when empty) into the process environment.
// A missing file is not an error; existing variables are not overridden.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Init wires the environment into v and reads the config file. configFile
// forces a specific file; otherwise .gemchat.{yml,yaml,json,toml} is searched
// in the current directory and then $HOME. It reports whether a file was read.
func Init(v *viper.Viper, configFile string) (bool, error) {
	v.SetEnvPrefix("GEMCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyAPIKey, EnvAPIKey, "GEMCHAT_API_KEY"); err != nil {
		return false, err
	}
	SetDefaults(v)

	if configFile != "" {
		if err := ReadConfigFile(v, configFile); err != nil {
			return false, err
		}
		return true, nil
	}

	v.SetConfigName(configName)
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("error reading config file: %w", err)
	}

	path := v.ConfigFileUsed()
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	if !HasEnvRefs(string(raw)) {
		return true, nil
	}
	// Re-read the located file with ${env://...} references expanded.
	if err := ReadConfigFile(v, path); err != nil {
		return false, err
	}
	return true, nil
}

// ReadConfigFile reads path into v after expanding ${env://...} references.
func ReadConfigFile(v *viper.Viper, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	content, err := ExpandEnv(string(raw))
	if err != nil {
		return fmt.Errorf("error reading config file '%s': %w", path, err)
	}

	v.SetConfigType(configType(path))
	if err := v.ReadConfig(strings.NewReader(content)); err != nil {
		return fmt.Errorf("error parsing config file '%s': %w", path, err)
	}
	return nil
}

func configType(path string) string {
	switch {
	case strings.HasSuffix(path, ".json"):
		return "json"
	case strings.HasSuffix(path, ".toml"):
		return "toml"
	default:
		return "yaml"
	}
}

// Load resolves Settings from v. A missing API key is reported as
// ErrMissingAPIKey before any other setting is validated.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		APIKey:       strings.TrimSpace(v.GetString(KeyAPIKey)),
		Model:        strings.TrimSpace(v.GetString(KeyModel)),
		Models:       v.GetStringSlice(KeyModels),
		HistoryFile:  v.GetString(KeyHistoryFile),
		FeedbackFile: v.GetString(KeyFeedbackFile),
		Stream:       v.GetBool(KeyStream),
		SystemPrompt: v.GetString(KeySystemPrompt),
		BaseURL:      v.GetString(KeyBaseURL),
		Debug:        v.GetBool(KeyDebug),
	}
	if s.APIKey == "" {
		return s, ErrMissingAPIKey
	}

	if v.IsSet(KeyTemperature) {
		t := float32(v.GetFloat64(KeyTemperature))
		if t < 0 || t > 2 {
			return s, fmt.Errorf("temperature must be between 0.0 and 2.0, got %v", t)
		}
		s.Temperature = &t
	}

	if s.SystemPrompt != "" {
		prompt, err := loadSystemPrompt(s.SystemPrompt)
		if err != nil {
			return s, err
		}
		s.SystemPrompt = prompt
	}
	return s, nil
}

// loadSystemPrompt treats value as a file path when such a file exists and
// as literal prompt text otherwise.
func loadSystemPrompt(value string) (string, error) {
	info, err := os.Stat(value)
	if err != nil || info.IsDir() {
		return value, nil
	}
	data, err := os.ReadFile(value)
	if err != nil {
		return "", fmt.Errorf("failed to read system prompt file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
