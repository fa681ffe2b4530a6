// Command categorize interactively categorizes uncategorized Amazon
// transactions in a YNAB budget, matching them against pasted order-history
// text and generating memos with order links.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ynabtools/amazon-categorizer/internal/cli"
	"github.com/ynabtools/amazon-categorizer/internal/infrastructure/config"
	"github.com/ynabtools/amazon-categorizer/internal/infrastructure/logging"
	"github.com/ynabtools/amazon-categorizer/internal/ynab"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file (falls back to environment)")
	flag.Parse()

	cfg, err := config.LoadOrEnvWithPath(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Set YNAB_API_KEY and YNAB_BUDGET_ID, or create a .env / config.yaml file.")
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Observability.Logging)
	client := ynab.NewClient(ynab.DefaultBaseURL, cfg.YNAB.APIKey, cfg.YNAB.BudgetID, logger.With("system", "ynab"))

	app := cli.NewApp(cfg, client, os.Stdin, os.Stdout, logger)
	if err := app.Run(context.Background()); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
