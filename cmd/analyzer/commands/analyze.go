package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL [SYMBOL...]",
	Short: "Analyze one or more symbols and print the results",
	Long: `Runs the full multi-factor analysis for the given symbols and
prints each result as JSON. Results are persisted when the database is
reachable.

Example:
  go run ./cmd/analyzer analyze AAPL
  go run ./cmd/analyzer analyze AAPL MSFT GOOG`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	svc, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer svc.close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	var failed int
	for _, arg := range args {
		symbol := strings.ToUpper(strings.TrimSpace(arg))

		result, err := svc.scanner.AnalyzeSymbol(ctx, symbol)
		if err != nil {
			svc.log.WithFields(map[string]interface{}{
				"symbol": symbol,
				"error":  err.Error(),
			}).Error("Analysis failed")
			failed++
			continue
		}

		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d symbols failed", failed, len(args))
	}
	return nil
}
