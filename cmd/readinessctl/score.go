package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xworks/readiness/internal/scoring"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [answers.json]",
		Short: "Score an answer file against a bank",
		Long: `Score reads a JSON object mapping question ids to selected option indexes
and prints the computed result. With no file argument the answers are read
from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScore,
	}
	cmd.Flags().String("bank", "ai-readiness", "Bank id to score against")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	engine, err := loadEngine(cmd)
	if err != nil {
		return err
	}
	banks, err := loadBanks(cmd)
	if err != nil {
		return err
	}

	bankID, _ := cmd.Flags().GetString("bank")
	bank, ok := banks.Get(bankID)
	if !ok {
		return fmt.Errorf("bank %q not found", bankID)
	}

	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var answers scoring.Answers
	if err := json.NewDecoder(in).Decode(&answers); err != nil {
		return fmt.Errorf("decoding answers: %w", err)
	}

	res, err := engine.Compute(bank.Questions, answers)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
