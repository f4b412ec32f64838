package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/slipstream/crossmatch/internal/api"
	"github.com/slipstream/crossmatch/internal/config"
	"github.com/slipstream/crossmatch/internal/logger"
	"github.com/slipstream/crossmatch/internal/prefilter"
	"github.com/slipstream/crossmatch/internal/scheduler"
	"github.com/slipstream/crossmatch/internal/scheduler/tasks"
	"github.com/slipstream/crossmatch/internal/searchee"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled admission pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), root)
		},
	}
}

func runServe(ctx context.Context, root *rootOptions) error {
	a, err := root.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	log := a.log
	log.Info().
		Str("version", config.Version).
		Str("logLevel", a.cfg.Logging.Level).
		Str("database", a.cfg.Database.Path).
		Msg("starting crossmatch")

	recorder := logger.NewRecorder(1000, logger.NewSink(log.WithComponent("prefilter").Logger))

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		return err
	}

	opts := api.Options{Scheduler: sched, Recorder: recorder}
	if a.cfg.Scheduler.SearcheeFile != "" {
		task := newPrefilterTask(a, recorder)
		if err := tasks.RegisterPrefilterTask(sched, task, a.cfg.Scheduler.SearchCadence); err != nil {
			return err
		}
		opts.LastResult = task
	} else {
		log.Warn().Msg("scheduler.searchee_file not set, scheduled admission pass disabled")
	}

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	server := api.NewServer(a.db, a.services, a.cfg, opts, log.Logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(a.cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case <-sigChan:
		log.Info().Msg("received shutdown signal")
	case <-ctx.Done():
	case err := <-serverErr:
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}

	log.Info().Msg("server stopped")
	return runErr
}

func newPrefilterTask(a *app, sink logger.Sink) *tasks.PrefilterTask {
	minInterval, err := config.ParseThreshold(a.cfg.Scheduler.MinInterval)
	if err != nil {
		a.log.Warn().Err(err).Msg("ignoring invalid scheduler.min_interval")
	}

	pipeline := prefilter.NewPipeline(prefilter.OptionsFromConfig(a.cfg.Prefilter, sink),
		a.services.Indexers, a.services.History, sink)

	return tasks.NewPrefilterTask(
		searchee.NewFileSource(a.cfg.Scheduler.SearcheeFile),
		pipeline,
		a.services.Jobs,
		minInterval,
		a.log.WithComponent("tasks").Logger,
	)
}
