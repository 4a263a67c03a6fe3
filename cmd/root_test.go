package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/viper"

	"github.com/mark3labs/gemchat/internal/config"
	"github.com/mark3labs/gemchat/internal/gemini"
	"github.com/mark3labs/gemchat/internal/ui"
)

func TestRunChat_MissingAPIKeyFailsBeforeNetwork(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv("GEMCHAT_API_KEY", "")
	viper.Reset()
	t.Cleanup(viper.Reset)

	if _, err := config.Init(viper.GetViper(), ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	// An unroutable base URL makes any network attempt fail loudly instead
	// of returning ErrMissingAPIKey.
	viper.Set(config.KeyBaseURL, "http://127.0.0.1:1")

	err := runChat(context.Background())
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestConnect_ExplicitModelValidatedOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cli := ui.NewCLI(&discard{}, ui.WithWidth(80))
	settings := config.Settings{APIKey: "k", Model: "gemini-2.0-flash"}

	// With a cancelled context SelectModel stops before probing, so no
	// request is made.
	_, _, err := connect(ctx, settings, cli, newLogger(false))
	if err == nil || errors.Is(err, gemini.ErrNoUsableModel) {
		t.Fatalf("Expected cancellation error, got %v", err)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
