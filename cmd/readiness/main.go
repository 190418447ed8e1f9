package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dooor-ai/readiness/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "readiness",
		Short: "Launch-readiness scoring for the product catalog",
		Long: `Readiness evaluates every product against a fixed set of launch criteria:
staging availability, open bug counts, uptime and latency, security headers,
and active usage. Each product gets a score and a ready/blocked status; a
product is ready only when every criterion passes.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewEvaluateCmd(),
		commands.NewStatusCmd(),
		commands.NewSecurityCmd(),
		commands.NewServeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
