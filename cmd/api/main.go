// cmd/api/main.go
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/toffan/running/internal/catalog"
	"github.com/toffan/running/internal/config"
	"github.com/toffan/running/internal/http/routes"
	"github.com/toffan/running/internal/plans"
	"github.com/toffan/running/internal/setup"
)

func main() {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	logger = logger.Level(cfg.Level())

	reg := catalog.Default()
	set, err := plans.Builtin(reg)
	if err != nil {
		logger.Fatal().Err(err).Msg("load plans")
	}
	ser, err := setup.Serializer(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("serializer")
	}

	opts := routes.ServerOptions{
		Catalog:    reg,
		Plans:      set,
		Serializer: ser,
		Token:      cfg.APIToken,
		Logger:     logger,
	}
	// Plan scheduling needs a queue and a token
	if cfg.APIToken != "" {
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("close asynq client")
			}
		}()
		opts.Queue = client
	}

	s := routes.New(opts)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", srv.Addr).Bool("scheduling", opts.Queue != nil).Msg("starting preview server")
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
