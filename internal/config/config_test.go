package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_MissingAPIKey(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	_, err := Load(v)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv(EnvAPIKey, "  env-key  ")
	t.Setenv("GEMCHAT_HISTORY_FILE", "logs/chat.txt")

	v := viper.New()
	if _, err := Init(v, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	s, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.APIKey != "env-key" {
		t.Errorf("Expected trimmed API key, got %q", s.APIKey)
	}
	if s.HistoryFile != "logs/chat.txt" {
		t.Errorf("Expected history file from env, got %q", s.HistoryFile)
	}
	if s.FeedbackFile != "feedback.txt" {
		t.Errorf("Expected default feedback file, got %q", s.FeedbackFile)
	}
	if s.Temperature != nil {
		t.Errorf("Expected no temperature override, got %v", *s.Temperature)
	}
}

func TestInit_ConfigFileWithSubstitution(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv("TEST_GEMCHAT_KEY", "file-key")

	path := filepath.Join(t.TempDir(), "gemchat.yml")
	content := `api-key: ${env://TEST_GEMCHAT_KEY}
model: ${env://TEST_GEMCHAT_MODEL:-gemini-1.5-flash}
models:
  - gemini-a
  - gemini-b
temperature: 0.3
stream: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	found, err := Init(v, path)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !found {
		t.Error("Expected config file to be reported as read")
	}

	s, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.APIKey != "file-key" {
		t.Errorf("Expected api key from file, got %q", s.APIKey)
	}
	if s.Model != "gemini-1.5-flash" {
		t.Errorf("Expected default model substitution, got %q", s.Model)
	}
	if len(s.Models) != 2 || s.Models[0] != "gemini-a" {
		t.Errorf("Unexpected models list %v", s.Models)
	}
	if s.Temperature == nil || *s.Temperature != float32(0.3) {
		t.Errorf("Expected temperature 0.3, got %v", s.Temperature)
	}
	if !s.Stream {
		t.Error("Expected stream enabled")
	}
}

func TestInit_ConfigFileMissingVariable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gemchat.yml")
	if err := os.WriteFile(path, []byte("api-key: ${env://GEMCHAT_TEST_UNSET_VAR}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Init(viper.New(), path)
	var missing *MissingEnvError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingEnvError, got %v", err)
	}
}

func TestLoad_TemperatureOutOfRange(t *testing.T) {
	v := viper.New()
	v.Set(KeyAPIKey, "k")
	v.Set(KeyTemperature, 3.5)

	if _, err := Load(v); err == nil {
		t.Error("Expected error for out-of-range temperature")
	}
}

func TestLoad_SystemPromptFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("  You are terse.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.Set(KeyAPIKey, "k")
	v.Set(KeySystemPrompt, path)
	s, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.SystemPrompt != "You are terse." {
		t.Errorf("Expected prompt read from file, got %q", s.SystemPrompt)
	}

	v.Set(KeySystemPrompt, "Answer in French.")
	s, err = Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.SystemPrompt != "Answer in French." {
		t.Errorf("Expected literal prompt, got %q", s.SystemPrompt)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	if err := LoadDotEnv(filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("Expected missing .env to be ignored, got %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GEMCHAT_DOTENV_TEST=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEMCHAT_DOTENV_TEST", "")
	os.Unsetenv("GEMCHAT_DOTENV_TEST")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv("GEMCHAT_DOTENV_TEST"); got != "from-dotenv" {
		t.Errorf("Expected value from .env, got %q", got)
	}
}

func TestLoad_MissingAPIKeyReportedBeforeOtherErrors(t *testing.T) {
	v := viper.New()
	v.Set(KeyTemperature, 9.0)
	v.Set(KeySystemPrompt, t.TempDir())

	if _, err := Load(v); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestInit_DiscoveredConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		model   string
	}{
		{
			name:    "plain file",
			content: "api-key: k\nmodel: gemini-plain\n",
			model:   "gemini-plain",
		},
		{
			name:    "file with references",
			content: "api-key: k\nmodel: ${env://GEMCHAT_TEST_DISCOVERED_MODEL}\n",
			env:     map[string]string{"GEMCHAT_TEST_DISCOVERED_MODEL": "gemini-expanded"},
			model:   "gemini-expanded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, ".gemchat.yml"), []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			t.Chdir(dir)
			for k, val := range tt.env {
				t.Setenv(k, val)
			}

			v := viper.New()
			found, err := Init(v, "")
			if err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if !found {
				t.Fatal("Expected config file to be found")
			}
			if got := v.GetString(KeyModel); got != tt.model {
				t.Errorf("Expected model %q, got %q", tt.model, got)
			}
		})
	}
}
