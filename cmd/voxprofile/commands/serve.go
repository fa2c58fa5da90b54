// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/voxprofile"
	"github.com/ik5/voxprofile/internal/config"
	"github.com/ik5/voxprofile/internal/logging"
	"github.com/ik5/voxprofile/internal/server"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	blobs, err := newBlobStore(cfg.Storage)
	if err != nil {
		return err
	}

	records, err := newRecordStore(cfg.Storage, log)
	if err != nil {
		return err
	}
	defer records.Close()

	matcher, err := newMatcher(cfg.Matcher, log)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Deps{
		Logger:             log,
		Pipeline:           voxprofile.New(voxprofile.WithMaxSampleRate(cfg.Analysis.MaxSampleRate)),
		Matcher:            matcher,
		Blobs:              blobs,
		Records:            records,
		MaxUploadBytes:     cfg.Server.MaxUploadBytes,
		MonitorInterval:    cfg.Capture.MonitorInterval,
		MaxCaptureDuration: cfg.Capture.MaxDuration,
		DefaultSampleRate:  cfg.Capture.DefaultSampleRate,
	})
	if err != nil {
		return err
	}

	log.Info("starting voxprofile",
		zap.String("version", Version),
		zap.String("storage", cfg.Storage.Backend),
		zap.Bool("matcher", matcher != nil),
		zap.Int("max_sample_rate", cfg.Analysis.MaxSampleRate),
	)

	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}
