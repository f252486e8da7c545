package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xworks/readiness/internal/assessment"
	"github.com/xworks/readiness/internal/scoring"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load every bank, the scoring tables and an optional roster",
		Long: `Validate loads the bank directory and scoring tables exactly as the server
does, then scores an empty attempt against each bank so that topics missing
from a strict weight table are reported before deployment.`,
		RunE: runValidate,
	}
	cmd.Flags().String("roster", "", "Roster file to check")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	engine, err := loadEngine(cmd)
	if err != nil {
		return err
	}
	banks, err := loadBanks(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, b := range banks.All() {
		if _, err := engine.Compute(b.Questions, scoring.Answers{}); err != nil {
			return fmt.Errorf("bank %s: %w", b.ID, err)
		}
		fmt.Fprintf(out, "ok  %-24s %3d questions  %d topics\n", b.ID, len(b.Questions), len(b.Topics()))
	}

	if path, _ := cmd.Flags().GetString("roster"); path != "" {
		roster, err := assessment.LoadRoster(path)
		if err != nil {
			return err
		}
		students := 0
		for _, c := range roster.Colleges {
			students += len(c.Students)
		}
		fmt.Fprintf(out, "ok  roster %d colleges  %d students\n", len(roster.Colleges), students)
	}

	fmt.Fprintf(out, "scoring fingerprint %s\n", engine.Fingerprint())
	return nil
}
