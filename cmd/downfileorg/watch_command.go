package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"downfileorg/internal/classifier"
	"downfileorg/internal/daemon"
	"downfileorg/internal/logging"
	"downfileorg/internal/monitor"
	"downfileorg/internal/organizer"
	"downfileorg/internal/queue"
	"downfileorg/internal/workflow"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the change monitor and organizer until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := ctx.commandLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := queue.Open(cfg)
			if err != nil {
				logger.Error("open queue store", logging.Error(err))
				return err
			}
			defer store.Close()

			mgr := workflow.NewManager(cfg, store, logger)
			mgr.ConfigureStages(workflow.StageSet{
				Classifier: classifier.NewClassifier(cfg, store, logger),
				Organizer:  organizer.NewOrganizer(cfg, store, logger),
			})

			d, err := daemon.New(cfg, store, logger, mgr, monitor.New(cfg, store, logger))
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			defer d.Close()

			if err := d.Start(signalCtx); err != nil {
				return err
			}

			<-signalCtx.Done()
			logger.Info("shutting down")
			d.Stop()
			return nil
		},
	}
}
