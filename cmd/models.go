package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mark3labs/gemchat/internal/config"
	"github.com/mark3labs/gemchat/internal/gemini"
	"github.com/mark3labs/gemchat/internal/ui"
)

var modelsProbeFlag bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the candidate models probed at startup",
	Long: `List the ordered candidate models gemchat probes when no --model is
given. The list comes from --models, the "models" config key, or the
built-in defaults.

With --probe, every candidate is sent a short test prompt and the result
is reported. This requires GEMINI_API_KEY.

Examples:
  gemchat models
  gemchat models --probe
  gemchat models --models gemini-2.0-flash,gemini-1.5-pro --probe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runModels(cmd.Context())
	},
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsProbeFlag, "probe", false, "send a test prompt to each candidate and report which respond")
}

func runModels(ctx context.Context) error {
	cli := ui.NewTerminalCLI(false)
	candidates := gemini.Candidates("", viper.GetStringSlice(config.KeyModels))

	if !modelsProbeFlag {
		for i, m := range candidates {
			cli.DisplayInfo(fmt.Sprintf("%d. %s", i+1, m))
		}
		return nil
	}

	settings, err := loadSettings(cli)
	if err != nil {
		return err
	}
	client, err := gemini.NewClient(ctx, gemini.Options{APIKey: settings.APIKey, BaseURL: settings.BaseURL})
	if err != nil {
		return err
	}

	working := 0
	for _, m := range candidates {
		cli.ProbeStarted(m)
		if err := client.Probe(ctx, m); err != nil {
			cli.ProbeFailed(m, err)
			continue
		}
		cli.DisplaySuccess("Model " + m + " is available")
		working++
	}
	if working == 0 {
		return gemini.ErrNoUsableModel
	}
	cli.DisplayInfo(fmt.Sprintf("%d of %d candidates responded.", working, len(candidates)))
	return nil
}
