package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/strategy"
)

var (
	outputFormat string
	fullSeries   bool
	chartedOnly  bool
	showReasons  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file.csv]",
	Short: "Analyze a price series once and print the result",
	Long: `Load the series, compute every indicator and print the latest values
with the recommendation.

Examples:
  stockanalyzer analyze prices.csv
  stockanalyzer analyze prices.csv --ticker AAPL --reasons
  stockanalyzer analyze prices.csv --output json --series
  stockanalyzer analyze prices.csv --output csv --charted
  stockanalyzer analyze --yahoo SPX500 --output csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outputFormat, "output", "", "Output format: text, json, csv (default from config)")
	analyzeCmd.Flags().BoolVar(&fullSeries, "series", false, "Emit every row instead of only the latest")
	analyzeCmd.Flags().BoolVar(&chartedOnly, "charted", false, "Emit only the rows where every indicator is defined")
	analyzeCmd.Flags().BoolVar(&showReasons, "reasons", false, "List the rule clauses behind the recommendation")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputFormat != "" {
		cfg.Report.Output = strings.ToLower(outputFormat)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	src, err := sourceFor(cfg, args)
	if err != nil {
		return err
	}

	res, err := newAnalyzer(cfg, src, log).Run(cmd.Context())
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), cfg.Report.Ticker, cfg.Report.Output, res)
}

type summary struct {
	Ticker         string               `json:"ticker,omitempty"`
	Source         string               `json:"source"`
	Latest         model.LatestSnapshot `json:"latest"`
	Recommendation model.Recommendation `json:"recommendation"`
	Color          string               `json:"color"`
	Reasons        []model.Reason       `json:"reasons"`
	RSIGuides      rsiGuides            `json:"rsi_guides"`
}

// rsiGuides are the horizontal lines drawn on an RSI chart.
type rsiGuides struct {
	Overbought float64 `json:"overbought"`
	Oversold   float64 `json:"oversold"`
}

// seriesRows picks the rows for a series export: every row, or only the
// charted window when --charted is set.
func seriesRows(res *analyzer.Result) ([]model.IndicatorSnapshot, bool) {
	switch {
	case chartedOnly:
		return res.Charted(), true
	case fullSeries:
		return res.Snapshots, true
	default:
		return nil, false
	}
}

func render(w io.Writer, ticker, format string, res *analyzer.Result) error {
	rows, series := seriesRows(res)
	switch format {
	case "json":
		if series {
			return notifier.WriteSeriesJSON(w, rows)
		}
		reasons := res.Signal.Reasons
		if reasons == nil {
			reasons = []model.Reason{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary{
			Ticker:         ticker,
			Source:         res.Source,
			Latest:         res.Latest,
			Recommendation: res.Recommendation(),
			Color:          res.Recommendation().Color(),
			Reasons:        reasons,
			RSIGuides:      rsiGuides{Overbought: strategy.RSIOverbought, Oversold: strategy.RSIOversold},
		})
	case "csv":
		if series {
			return notifier.WriteSeriesCSV(w, rows)
		}
		return notifier.WriteSeriesCSV(w, res.Snapshots[len(res.Snapshots)-1:])
	default:
		if series {
			if err := notifier.WriteSeriesCSV(w, rows); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, res.Report)
		if showReasons {
			fmt.Fprintln(w, notifier.FormatReasons(res.Signal))
		}
		return nil
	}
}
