package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rankpulse/rankpulse/internal/application/pipeline"
	"github.com/rankpulse/rankpulse/internal/artifacts"
	"github.com/rankpulse/rankpulse/internal/config"
	"github.com/rankpulse/rankpulse/internal/domain/resample"
	"github.com/rankpulse/rankpulse/internal/infrastructure/ingest"
	"github.com/rankpulse/rankpulse/internal/ui"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the ranking state analysis over a CSV export",
	Long: `Run the full analysis pipeline over a delimited export with a header
row: resample onto a period grid, derive change rates, smooth them,
classify ranking states and report the state intervals.

Examples:
  rankpulse analyze --input pages.csv --date-col Date --pages-col Pages --traffic-col Traffic
  rankpulse analyze --input pages.csv --date-col Date --pages-col Pages --traffic-col Traffic \
      --granularity weekly --window 4 --from 2024-01-01 --to 2024-06-30
  rankpulse analyze --input pages.csv --date-col Date --pages-col Pages --traffic-col Traffic \
      --gaps zero --format json`,
	RunE: runAnalyze,
}

// Command-line flags for analyze
var (
	analyzeInput       string
	analyzeDateCol     string
	analyzePagesCol    string
	analyzeTrafficCol  string
	analyzeGranularity string
	analyzeFrom        string
	analyzeTo          string
	analyzeWindow      int
	analyzeGaps        string
	analyzeDelimiter   string
	analyzeOutputDir   string
	analyzeFormat      string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "Path to the delimited input file")
	analyzeCmd.Flags().StringVar(&analyzeDateCol, "date-col", "", "Column holding the row date")
	analyzeCmd.Flags().StringVar(&analyzePagesCol, "pages-col", "", "Column holding the page count")
	analyzeCmd.Flags().StringVar(&analyzeTrafficCol, "traffic-col", "", "Column holding the traffic count")

	analyzeCmd.Flags().StringVar(&analyzeGranularity, "granularity", "", "Period granularity (daily|weekly|monthly)")
	analyzeCmd.Flags().StringVar(&analyzeFrom, "from", "", "Start of date range filter (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&analyzeTo, "to", "", "End of date range filter (YYYY-MM-DD)")
	analyzeCmd.Flags().IntVar(&analyzeWindow, "window", 0, "Moving average window in periods")
	analyzeCmd.Flags().StringVar(&analyzeGaps, "gaps", "", "Missing period policy (skip|zero)")
	analyzeCmd.Flags().StringVar(&analyzeDelimiter, "delimiter", "", "Field delimiter (single character)")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output", "", "Directory for JSON and markdown artifacts")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "Terminal output format (text|json|markdown)")

	analyzeCmd.MarkFlagRequired("input")
	analyzeCmd.MarkFlagRequired("date-col")
	analyzeCmd.MarkFlagRequired("pages-col")
	analyzeCmd.MarkFlagRequired("traffic-col")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := applyLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	params, err := buildParams(cfg)
	if err != nil {
		return fmt.Errorf("invalid analysis parameters: %w", err)
	}

	delimiter := cfg.DelimiterRune()
	if analyzeDelimiter != "" {
		runes := []rune(analyzeDelimiter)
		if len(runes) != 1 {
			return fmt.Errorf("delimiter must be a single character, got %q", analyzeDelimiter)
		}
		delimiter = runes[0]
	}

	ds, err := ingest.Load(analyzeInput, delimiter, ingest.Options{
		DateColumn:    analyzeDateCol,
		PagesColumn:   analyzePagesCol,
		TrafficColumn: analyzeTrafficCol,
	})
	if err != nil {
		return fmt.Errorf("ingest %s: %w", analyzeInput, err)
	}

	result, err := pipeline.Run(context.Background(), ds.Observations, params)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	switch analyzeFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	case "markdown":
		fmt.Fprint(os.Stdout, artifacts.RenderMarkdown(result))
	case "text":
		ui.Render(os.Stdout, result)
	default:
		return fmt.Errorf("unknown format %q (want text, json or markdown)", analyzeFormat)
	}

	if analyzeOutputDir != "" {
		jsonPath, mdPath, err := artifacts.WriteResult(analyzeOutputDir, result)
		if err != nil {
			return fmt.Errorf("write artifacts: %w", err)
		}
		log.Info().Str("json", jsonPath).Str("markdown", mdPath).Msg("Artifacts written")
	}

	return nil
}

// buildParams merges analyze flags over the configured defaults.
func buildParams(cfg *config.Config) (pipeline.Params, error) {
	p := pipeline.Params{
		Granularity: resample.Granularity(cfg.Analysis.Granularity),
		Window:      cfg.Analysis.Window,
		GapPolicy:   resample.GapPolicy(cfg.Analysis.GapPolicy),
	}

	if analyzeGranularity != "" {
		g, err := resample.ParseGranularity(analyzeGranularity)
		if err != nil {
			return p, err
		}
		p.Granularity = g
	}
	if analyzeGaps != "" {
		gp, err := resample.ParseGapPolicy(analyzeGaps)
		if err != nil {
			return p, err
		}
		p.GapPolicy = gp
	}
	if analyzeWindow != 0 {
		p.Window = analyzeWindow
	}
	if analyzeFrom != "" {
		from, err := time.Parse("2006-01-02", analyzeFrom)
		if err != nil {
			return p, fmt.Errorf("invalid --from date %q: %w", analyzeFrom, err)
		}
		p.From = from.UTC()
	}
	if analyzeTo != "" {
		to, err := time.Parse("2006-01-02", analyzeTo)
		if err != nil {
			return p, fmt.Errorf("invalid --to date %q: %w", analyzeTo, err)
		}
		p.To = to.UTC()
	}
	return p, p.Validate()
}
