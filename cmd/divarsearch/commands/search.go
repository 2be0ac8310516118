package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/divarsearch/internal/logger"
	"github.com/jmylchreest/divarsearch/internal/output"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search listings in one city",
	Long: `Search Divar listings in one city from a free-text request.

The city may be given in Persian (تهران) or as its slug (tehran).

Examples:
  divarsearch search --city تهران --query "apartment for rent"
  divarsearch search -c shiraz -q "گوشی سامسونگ" --format json
  divarsearch search -c karaj -q "bicycle" --transcript`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	flags := searchCmd.Flags()
	flags.StringP("city", "c", "", "city name in Persian or its slug (required)")
	flags.StringP("query", "q", "", "what you are looking for (required)")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.StringP("format", "f", "", "output format: text, json, jsonl, yaml (default text)")
	flags.Bool("transcript", false, "print the conversation log in text output")

	_ = viper.BindPFlag("format", flags.Lookup("format"))
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	cityName, _ := cmd.Flags().GetString("city")
	query, _ := cmd.Flags().GetString("query")
	if err := checkInput(cityName, query); err != nil {
		printHints(err, "")
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p, meta, err := buildPipeline(ctx, cfg)
	if err != nil {
		printHints(err, meta.Provider)
		return err
	}

	outFile := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		outFile = f
	}

	transcript, _ := cmd.Flags().GetBool("transcript")
	writer, err := output.NewWriter(outFile, output.Format(cfg.Format), output.WithTranscript(transcript))
	if err != nil {
		return err
	}

	logger.Info("searching", "city", cityName, "provider", meta.Provider, "model", meta.Model)

	start := time.Now()
	state, err := p.Run(ctx, cityName, query)
	if err != nil {
		printHints(err, meta.Provider)
		return err
	}
	if state.ScrapeFailed {
		logger.Warn("scraping failed, results describe the error")
	}

	return writer.Write(output.NewReport(state, meta, time.Since(start)))
}
