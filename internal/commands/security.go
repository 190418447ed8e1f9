package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewSecurityCmd creates the security command.
func NewSecurityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "security [product-id]",
		Short: "Show the security-header report for a product's staging URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecurity(args[0])
		},
	}
}

func runSecurity(productID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	eng, _, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := eng.SecurityReport(ctx, productID)
	if err != nil {
		return fmt.Errorf("security check failed: %w", err)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("\n%s (HTTP %d)\n", report.URL, report.StatusCode)
	for name, check := range report.Headers {
		if check.Present {
			color.Green("  ✓ %s: %s", name, check.Value)
		} else {
			color.Red("  ✗ %s: missing", name)
		}
	}
	if report.Passed {
		color.Green("\nAll required headers present")
	} else {
		color.Red("\nMissing required headers")
	}
	fmt.Println()
	return nil
}
