package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [SYMBOL...]",
	Short: "Scan the watchlist and persist the results",
	Long: `Analyzes every symbol on the configured watchlist (or the
symbols given as arguments) using the scan worker pool and stores the
results.

Example:
  go run ./cmd/analyzer scan
  go run ./cmd/analyzer scan AAPL MSFT NVDA`,
	RunE: runScan,
}

var scanTimeout time.Duration

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 30*time.Minute, "overall scan timeout")
}

func runScan(cmd *cobra.Command, args []string) error {
	svc, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer svc.close()

	symbols := svc.cfg.Analysis.Watchlist
	if len(args) > 0 {
		symbols = make([]string, 0, len(args))
		for _, arg := range args {
			symbols = append(symbols, strings.ToUpper(strings.TrimSpace(arg)))
		}
	}

	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to scan: set WATCHLIST or pass symbols as arguments")
	}

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	summary, err := svc.scanner.Scan(ctx, symbols)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("Scanned %d symbols: %d succeeded, %d failed in %s\n",
		summary.Total, summary.Succeeded, summary.Failed, summary.Duration.Round(time.Millisecond))

	if summary.Succeeded == 0 && summary.Failed > 0 {
		return fmt.Errorf("all %d symbols failed", summary.Failed)
	}
	return nil
}
