package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/aishoubot/aishou/internal/comments"
	"github.com/aishoubot/aishou/internal/compose"
	"github.com/aishoubot/aishou/internal/config"
	"github.com/aishoubot/aishou/internal/dedup"
	"github.com/aishoubot/aishou/internal/line"
	"github.com/aishoubot/aishou/internal/logger"
	"github.com/aishoubot/aishou/internal/pipeline"
	"github.com/aishoubot/aishou/internal/server"
	"github.com/aishoubot/aishou/internal/webhook"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideLineClient,
			provideDedupCache,
			provideCommentBank,
			provideComposer,
			providePipeline,
			provideDispatcher,
			provideWebhookHandler,
			provideServer,
		),
		fx.Invoke(startServer),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideLineClient(cfg config.Config) *line.Client {
	return line.NewClient(cfg.Line.ChannelAccessToken,
		line.WithBaseURL(cfg.Line.APIBaseURL),
		line.WithDataBaseURL(cfg.Line.DataBaseURL),
	)
}

func provideDedupCache(cfg config.Config) (*dedup.Cache, error) {
	return dedup.New(cfg.Pipeline.DedupCapacity)
}

func provideCommentBank(cfg config.Config) (*comments.Bank, error) {
	bank, err := comments.Load(cfg.Comments.Path)
	if err != nil {
		return nil, fmt.Errorf("load comment bank: %w", err)
	}
	return bank, nil
}

func provideComposer(bank *comments.Bank, cfg config.Config, log *slog.Logger) *compose.Composer {
	return compose.New(bank, cfg.Server.BaseURL, cfg.Server.PromoLinkURL, log)
}

func providePipeline(client *line.Client, composer *compose.Composer, cfg config.Config, log *slog.Logger) *pipeline.Pipeline {
	return pipeline.New(client, composer, cfg.Pipeline.FetchTimeout(), log)
}

func provideDispatcher(log *slog.Logger) *webhook.Dispatcher {
	return webhook.NewDispatcher(log)
}

func provideWebhookHandler(log *slog.Logger, cache *dedup.Cache, p *pipeline.Pipeline, client *line.Client, dispatcher *webhook.Dispatcher, cfg config.Config) *webhook.Handler {
	return webhook.NewHandler(log, cache, p, client, dispatcher, webhook.Options{
		ChannelSecret:        cfg.Line.ChannelSecret,
		SendProcessingNotice: cfg.Pipeline.SendProcessingNotice,
		ConcurrentEvents:     cfg.Pipeline.ConcurrentEvents,
	})
}

func provideServer(cfg config.Config, log *slog.Logger, h *webhook.Handler) *server.Server {
	return server.New(cfg.Server.Addr, cfg.Server.ImagesDir, log, h)
}

func startServer(lc fx.Lifecycle, s *server.Server, log *slog.Logger, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting server", slog.String("addr", cfg.Server.Addr))
			go func() {
				if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Shutdown(ctx)
		},
	})
}
