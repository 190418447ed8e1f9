package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dooor-ai/readiness/pkg/types"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show readiness for every product in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	eng, _, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	records := eng.EvaluateAll(ctx)

	bold := color.New(color.Bold)
	_, _ = bold.Printf("\n%-12s %-22s %-8s %s\n", "PRODUCT", "STAGE", "SCORE", "STATUS")
	for _, record := range records {
		stage := record.Stage
		if stage == "" {
			stage = "-"
		}
		fmt.Printf("%-12s %-22s %6.1f%%  ", record.ProductID, stage, record.ReadinessScore)
		if record.Status == types.StatusReady {
			color.Green("READY")
		} else {
			color.Red("BLOCKED")
		}
	}
	fmt.Println()
	return nil
}
