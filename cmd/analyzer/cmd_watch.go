package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/metrics"
	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/scheduler"
)

var (
	reloadCron  string
	metricsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch [file.csv]",
	Short: "Re-analyze on a schedule and push the report when the call changes",
	Long: `Run the analysis once, then again on every cron trigger (six fields,
seconds first). The report is printed, and sent to Telegram when a bot token
and chat id are configured, whenever the recommendation changes.

Examples:
  stockanalyzer watch prices.csv
  stockanalyzer watch prices.csv --cron "0 */5 * * * *" --metrics-addr :9108`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&reloadCron, "cron", "", "Reload schedule (default from config)")
	watchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if reloadCron != "" {
		cfg.Schedule.ReloadCron = reloadCron
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
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

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rec := metrics.New()
	a := newAnalyzer(cfg, src, log)
	a.Metrics = rec

	sched := scheduler.NewScheduler(ctx, a, notifiers(cfg, cmd, log), log)
	if err := sched.Register(cfg.Schedule.ReloadCron); err != nil {
		return err
	}

	var srv *http.Server
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, rec.Handler())
		srv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info().Str("addr", cfg.Metrics.Addr).Str("path", cfg.Metrics.Path).Msg("metrics server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
	}

	// A failing first run is reported but does not stop the watcher.
	_, _ = sched.RunNow()
	sched.Start()
	log.Info().Str("source", src.Name()).Msg("watching; press Ctrl+C to stop")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")
	sched.Stop()
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return nil
}

func notifiers(cfg *config.Config, cmd *cobra.Command, log zerolog.Logger) notifier.Notifier {
	out := notifier.Multi{notifier.NewWriterNotifier(cmd.OutOrStdout())}
	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		out = append(out, notifier.Retrying{TelegramNotifier: tn, MaxRetries: cfg.Telegram.MaxRetries})
	}
	return out
}
