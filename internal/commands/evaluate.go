package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dooor-ai/readiness/pkg/types"
)

// NewEvaluateCmd creates the evaluate command.
func NewEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate [product-id]",
		Short: "Evaluate launch readiness for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(args[0])
		},
	}
}

func runEvaluate(productID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	eng, _, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	record, err := eng.Evaluate(ctx, productID)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	printRecord(record)
	return nil
}

func printRecord(record *types.ReadinessRecord) {
	bold := color.New(color.Bold)

	_, _ = bold.Printf("\nProduct: %s (%s)\n", record.Name, record.ProductID)
	fmt.Printf("URL: %s\n", record.URL)
	if record.Stage != "" {
		fmt.Printf("Stage: %s\n", record.Stage)
	}

	if record.Status == types.StatusReady {
		color.Green("Status: READY ✓ (%.1f%%)", record.ReadinessScore)
	} else {
		color.Red("Status: BLOCKED ✗ (%.1f%%)", record.ReadinessScore)
	}

	fmt.Println("\nCriteria:")
	for _, c := range types.AllCriteria {
		if record.Criteria[c] {
			color.Green("  ✓ %s", c)
		} else {
			color.Red("  ✗ %s", c)
		}
	}

	if record.Observations != "" {
		fmt.Printf("\nObservations: %s\n", record.Observations)
	}
	fmt.Println()
}
