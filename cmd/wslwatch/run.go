package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/wslwatch/internal/config"
	"github.com/hamed0406/wslwatch/internal/display"
	"github.com/hamed0406/wslwatch/internal/httpapi"
	"github.com/hamed0406/wslwatch/internal/logging"
	"github.com/hamed0406/wslwatch/internal/metrics"
	"github.com/hamed0406/wslwatch/internal/notify"
	"github.com/hamed0406/wslwatch/internal/probe"
	"github.com/hamed0406/wslwatch/internal/scheduler"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the watcher (default command)",
	Args:  cobra.NoArgs,
	RunE:  runWatcher,
}

func runWatcher(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(cfg.LogDir, flagDebug)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	for _, w := range config.Warnings(cfg) {
		logger.Warn("config_warning", zap.String("detail", w))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.New()
	board := display.NewBoard(cfg.Title(), cfg.Service)
	surfaces := display.Multi{board}
	if cfg.Terminal {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cfg.Title())
		term := display.NewTerminal(out, cfg.NoColor)
		defer term.Close()
		surfaces = append(surfaces, term)
	}

	checker := probe.NewServiceChecker(cfg.Shell, cfg.Command, cfg.CheckTimeout)
	watcher := scheduler.NewWatcher(
		logger,
		checker,
		surfaces,
		cfg.Service,
		scheduler.Labels{Name: cfg.DisplayName(), Subsystem: cfg.Subsystem},
		cfg.CheckInterval,
		cfg.ClockInterval,
	)
	watcher.Metrics = reg
	alerter := scheduler.NewAlerter(logger, notify.New(logger, cfg.SlackWebhook), scheduler.AlerterConfig{
		AlertOnRecovery: cfg.AlertRecovery,
		Cooldown:        cfg.AlertCooldown,
	})
	watcher.Observer = alerter

	g, gctx := errgroup.WithContext(ctx)
	loop := scheduler.NewLoop()
	g.Go(func() error {
		if err := loop.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if cfg.Addr != "" {
		ln, err := net.Listen("tcp", cfg.Addr)
		if err != nil {
			stop()
			_ = g.Wait()
			return fmt.Errorf("status api listen: %w", err)
		}
		api := httpapi.NewServer(logger, board, reg)
		api.Refresh = cfg.ClockInterval
		srv := &http.Server{
			Handler: api.Router(httpapi.RouterOptions{
				AllowedOrigins: cfg.AllowedOrigins,
				PublicRPM:      cfg.PublicRPM,
				PublicBurst:    cfg.PublicBurst,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		logger.Info("api_listen", zap.String("addr", ln.Addr().String()))

		g.Go(func() error {
			if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status api: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	watcher.Start(loop)
	err = g.Wait()
	alerter.Wait()
	logger.Info("watcher_stopped", zap.Error(err))
	return err
}
