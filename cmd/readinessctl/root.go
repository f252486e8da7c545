package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xworks/readiness/internal/questionbank"
	"github.com/xworks/readiness/internal/scoring"
)

// version is set via -ldflags at build time.
var version = "(devel)"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "readinessctl",
		Short:        "Readiness assessment content tools",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("banks", "./content/banks", "Question bank directory")
	root.PersistentFlags().String("scoring", "", "Scoring tables file (empty uses the built-in tables)")
	root.PersistentFlags().Bool("strict-topics", false, "Fail on topics missing from the weight table")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newFingerprintCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "readinessctl", version)
		},
	})
	return root
}

// loadEngine builds the engine from the --scoring and --strict-topics flags.
func loadEngine(cmd *cobra.Command) (*scoring.Engine, error) {
	path, _ := cmd.Flags().GetString("scoring")
	strict, _ := cmd.Flags().GetBool("strict-topics")

	cfg, err := questionbank.LoadScoringConfig(path)
	if err != nil {
		return nil, err
	}
	if strict {
		cfg.TopicWeights.DisableDefault = true
	}
	return scoring.NewEngine(cfg)
}

func loadBanks(cmd *cobra.Command) (*questionbank.Loader, error) {
	dir, _ := cmd.Flags().GetString("banks")
	return questionbank.NewLoader(dir)
}
