package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mark3labs/gemchat/internal/app"
	"github.com/mark3labs/gemchat/internal/config"
	"github.com/mark3labs/gemchat/internal/gemini"
	"github.com/mark3labs/gemchat/internal/history"
	"github.com/mark3labs/gemchat/internal/ui"
)

var (
	configFile       string
	envFile          string
	modelFlag        string
	modelsFlag       []string
	historyFile      string
	feedbackFile     string
	systemPromptFlag string
	baseURLFlag      string
	temperature      float32
	streamFlag       bool
	plainFlag        bool
	debugMode        bool
)

// rootCmd runs an interactive chat with a Gemini model.
var rootCmd = &cobra.Command{
	Use:   "gemchat",
	Short: "Chat with Google Gemini from your terminal",
	Long: `Chat with Google Gemini from your terminal.

Type a message and press Enter. Saying goodbye (bye, exit, quit, ...) ends
the chat after asking for a short review and a 1-5 rating.

Every exchange is appended to chat_history.txt and the review to
feedback.txt in the current directory.

Requires the GEMINI_API_KEY environment variable.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

// GetRootCommand returns the root command with the version set.
func GetRootCommand(v string) *cobra.Command {
	rootCmd.Version = v
	return rootCmd
}

func banner() string {
	return ui.ApplyGradient("✦ gemchat ✦", lipgloss.Color("#4285F4"), lipgloss.Color("#A142F4"))
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Long = banner() + "\n\n" + rootCmd.Long

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is ./.gemchat.yml or $HOME/.gemchat.yml)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.BoolVar(&debugMode, "debug", false, "enable debug logging")
	flags.StringVar(&baseURLFlag, "base-url", "", "override the Gemini API base URL")
	flags.StringSliceVar(&modelsFlag, "models", nil, "ordered candidate models to probe when --model is not set")

	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "model to use; validated once at startup (default: probe candidates)")
	rootCmd.Flags().StringVar(&historyFile, "history-file", history.DefaultTranscriptFile, "chat transcript file")
	rootCmd.Flags().StringVar(&feedbackFile, "feedback-file", history.DefaultFeedbackFile, "feedback file")
	rootCmd.Flags().StringVar(&systemPromptFlag, "system-prompt", "", "system prompt text or path to text file")
	rootCmd.Flags().Float32Var(&temperature, "temperature", 0, "sampling temperature 0.0-2.0 (default: the model's own)")
	rootCmd.Flags().BoolVar(&streamFlag, "stream", false, "print replies as they are generated instead of rendering markdown")
	rootCmd.Flags().BoolVar(&plainFlag, "plain", false, "print replies without markdown rendering")

	_ = viper.BindPFlag(config.KeyDebug, flags.Lookup("debug"))
	_ = viper.BindPFlag(config.KeyBaseURL, flags.Lookup("base-url"))
	_ = viper.BindPFlag(config.KeyModels, flags.Lookup("models"))
	_ = viper.BindPFlag(config.KeyModel, rootCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag(config.KeyHistoryFile, rootCmd.Flags().Lookup("history-file"))
	_ = viper.BindPFlag(config.KeyFeedbackFile, rootCmd.Flags().Lookup("feedback-file"))
	_ = viper.BindPFlag(config.KeySystemPrompt, rootCmd.Flags().Lookup("system-prompt"))
	_ = viper.BindPFlag(config.KeyTemperature, rootCmd.Flags().Lookup("temperature"))
	_ = viper.BindPFlag(config.KeyStream, rootCmd.Flags().Lookup("stream"))

	rootCmd.AddCommand(modelsCmd)
}

// initConfig loads .env, then the config file, into the global viper.
func initConfig() {
	if err := config.LoadDotEnv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	found, err := config.Init(viper.GetViper(), configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if found && viper.GetBool(config.KeyDebug) {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func newLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "gemchat",
		ReportTimestamp: debug,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// loadSettings resolves settings and prints setup instructions when the API
// key is missing.
func loadSettings(cli *ui.CLI) (config.Settings, error) {
	settings, err := config.Load(viper.GetViper())
	if errors.Is(err, config.ErrMissingAPIKey) {
		cli.DisplayError(config.EnvAPIKey + " environment variable not set.")
		cli.DisplayWarning("Please set your API key with: export " + config.EnvAPIKey + "='your_api_key'")
	}
	return settings, err
}

// connect creates the client and selects a working model.
func connect(ctx context.Context, settings config.Settings, cli *ui.CLI, logger *log.Logger) (*gemini.Client, string, error) {
	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:       settings.APIKey,
		BaseURL:      settings.BaseURL,
		SystemPrompt: settings.SystemPrompt,
		Temperature:  settings.Temperature,
	})
	if err != nil {
		return nil, "", err
	}

	candidates := gemini.Candidates(settings.Model, settings.Models)
	logger.Debug("selecting model", "candidates", strings.Join(candidates, ","))

	model, err := gemini.SelectModel(ctx, candidates, client.Probe, cli)
	if err != nil {
		if errors.Is(err, gemini.ErrNoUsableModel) {
			cli.DisplayError("Could not connect to any Gemini model.")
			cli.DisplayWarning("Please check your API key and internet connection.")
			if settings.Model != "" {
				cli.DisplayWarning("The configured model " + settings.Model + " may not exist; run 'gemchat models --probe' to list working models.")
			}
		}
		return nil, "", err
	}
	return client, model, nil
}

func runChat(ctx context.Context) error {
	cli := ui.NewTerminalCLI(!viper.GetBool(config.KeyStream) && !plainFlag)
	settings, err := loadSettings(cli)
	if err != nil {
		return err
	}

	logger := newLogger(settings.Debug)
	logger.Debug("settings loaded",
		"history", settings.HistoryFile,
		"feedback", settings.FeedbackFile,
		"stream", settings.Stream)

	client, model, err := connect(ctx, settings, cli, logger)
	if err != nil {
		return err
	}

	conversation, err := client.StartChat(ctx, model)
	if err != nil {
		return err
	}

	cli.DisplayWelcome(model)

	a := app.New(app.Options{
		Responder: conversation,
		Recorder:  history.New(settings.HistoryFile, settings.FeedbackFile),
		CLI:       cli,
		Input:     os.Stdin,
		Streaming: settings.Stream,
		Logger:    logger,
	})

	outcome, err := a.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			cli.DisplayWarning("\nChat interrupted.")
		}
		return err
	}
	logger.Debug("session ended", "outcome", outcome)
	return nil
}
