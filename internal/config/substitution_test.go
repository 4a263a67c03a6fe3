package config

import (
	"errors"
	"reflect"
	"testing"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

func TestExpandEnvWith(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		env         map[string]string
		expected    string
		wantMissing []string
	}{
		{
			name:     "basic substitution",
			input:    "api-key: ${env://GEMINI_API_KEY}",
			env:      map[string]string{"GEMINI_API_KEY": "secret"},
			expected: "api-key: secret",
		},
		{
			name:     "default used when unset",
			input:    "model: ${env://GEMCHAT_MODEL:-gemini-1.5-pro}",
			expected: "model: gemini-1.5-pro",
		},
		{
			name:     "default used when empty",
			input:    "model: ${env://GEMCHAT_MODEL:-gemini-1.5-pro}",
			env:      map[string]string{"GEMCHAT_MODEL": ""},
			expected: "model: gemini-1.5-pro",
		},
		{
			name:     "empty default",
			input:    "system-prompt: \"${env://PROMPT:-}\"",
			expected: "system-prompt: \"\"",
		},
		{
			name:     "default containing colon",
			input:    "base-url: ${env://URL:-https://example.com:8080/v1}",
			expected: "base-url: https://example.com:8080/v1",
		},
		{
			name:     "set value wins over default",
			input:    "${env://A:-x} ${env://B}",
			env:      map[string]string{"A": "1", "B": "2"},
			expected: "1 2",
		},
		{
			name:     "no references",
			input:    "history-file: chat_history.txt",
			expected: "history-file: chat_history.txt",
		},
		{
			name:        "missing required variables are all reported",
			input:       "${env://ONE} ${env://TWO:-ok} ${env://THREE}",
			wantMissing: []string{"ONE", "THREE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandEnvWith(tt.input, mapLookup(tt.env))
			if tt.wantMissing != nil {
				var missing *MissingEnvError
				if !errors.As(err, &missing) {
					t.Fatalf("Expected MissingEnvError, got %v", err)
				}
				if !reflect.DeepEqual(missing.Names, tt.wantMissing) {
					t.Errorf("Expected missing %v, got %v", tt.wantMissing, missing.Names)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestHasEnvRefs(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"${env://GEMINI_API_KEY}", true},
		{"${env://X:-y}", true},
		{"$GEMINI_API_KEY", false},
		{"${GEMINI_API_KEY}", false},
		{"plain", false},
	}
	for _, tt := range tests {
		if got := HasEnvRefs(tt.input); got != tt.expected {
			t.Errorf("HasEnvRefs(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
