package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/loader"
	"StockAnalyzer/internal/logger"
)

var version = "dev"

var (
	configPath  string
	tickerFlag  string
	dateColumn  string
	closeColumn string
	demoFlag    bool
	yahooSymbol string
	yahooRange  string
)

var rootCmd = &cobra.Command{
	Use:   "stockanalyzer",
	Short: "Technical indicators and a Buy/Sell/Hold call for a daily price series",
	Long: `stockanalyzer loads a CSV of daily closes, computes SMA(50), SMA(200),
RSI(14), EMA(12), EMA(26), MACD and its signal line, and classifies the
latest row as Buy, Sell or Hold.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "stockanalyzer", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "Path to YAML config (missing file uses defaults)")
	rootCmd.PersistentFlags().StringVar(&tickerFlag, "ticker", "", "Ticker shown in the report")
	rootCmd.PersistentFlags().StringVar(&dateColumn, "date-column", "", "Date column name (default from config)")
	rootCmd.PersistentFlags().StringVar(&closeColumn, "close-column", "", "Close column name (default from config)")
	rootCmd.PersistentFlags().BoolVar(&demoFlag, "demo", false, "Use a generated demo series instead of a file")
	rootCmd.PersistentFlags().StringVar(&yahooSymbol, "yahoo", "", "Download daily closes for this symbol from Yahoo Finance")
	rootCmd.PersistentFlags().StringVar(&yahooRange, "yahoo-range", "2y", "Yahoo history range")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the persistent flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if tickerFlag != "" {
		cfg.Report.Ticker = tickerFlag
	}
	if dateColumn != "" {
		cfg.Loader.DateColumn = dateColumn
	}
	if closeColumn != "" {
		cfg.Loader.CloseColumn = closeColumn
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) (zerolog.Logger, error) {
	return logger.New(cfg.Log, out)
}

// sourceFor picks the data source from the flags and positional argument.
func sourceFor(cfg *config.Config, args []string) (collector.Source, error) {
	switch {
	case demoFlag:
		return &collector.MockSource{Closes: collector.DemoCloses(300, 100)}, nil
	case yahooSymbol != "":
		return collector.NewYahooSource(yahooSymbol, yahooRange, cfg.Proxy), nil
	case len(args) == 1:
		return collector.NewFileSource(args[0], cfg.Delimiter()), nil
	default:
		return nil, errors.New("a CSV file argument is required (or --demo / --yahoo)")
	}
}

func newAnalyzer(cfg *config.Config, src collector.Source, log zerolog.Logger) *analyzer.Analyzer {
	a := analyzer.New(src, log)
	a.Options = cfg.LoaderOptions()
	a.Params = cfg.Indicators
	a.Ticker = cfg.Report.Ticker
	return a
}

// describe turns pipeline errors into a one-line message for the terminal.
func describe(err error) string {
	var (
		pe *loader.ParseError
		ih *calculator.InsufficientHistoryError
		se *analyzer.SourceError
	)
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("could not read %s: %v", se.Source, se.Err)
	case errors.As(err, &pe):
		if pe.Row == 0 {
			return fmt.Sprintf("input has no %q column", pe.Column)
		}
		return fmt.Sprintf("row %d: invalid %s value %q", pe.Row, pe.Column, pe.Value)
	case errors.Is(err, loader.ErrEmptyInput):
		return fmt.Sprintf("no usable rows: %v", err)
	case errors.As(err, &ih):
		return fmt.Sprintf("not enough history: %d rows, at least %d needed", ih.Have, ih.Need)
	default:
		return err.Error()
	}
}
