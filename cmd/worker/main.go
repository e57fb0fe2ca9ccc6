package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/toffan/running/internal/catalog"
	"github.com/toffan/running/internal/config"
	"github.com/toffan/running/internal/garmin"
	"github.com/toffan/running/internal/jobs"
	"github.com/toffan/running/internal/ledger"
	"github.com/toffan/running/internal/setup"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "worker").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	logger = logger.Level(cfg.Level())
	ctx := context.Background()

	creds, err := garmin.LoadCredentials(cfg.Garmin.TokenFile, cfg.Garmin.CookiesFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("credentials")
	}

	var rec garmin.Recorder
	if cfg.Running.Ledger != "" && cfg.Running.Ledger != "off" {
		store, err := ledger.Open(ctx, cfg.Running.Ledger)
		if err != nil {
			logger.Fatal().Err(err).Msg("open ledger")
		}
		defer store.Close()
		rec = store
		logger = logger.With().Str("run", store.RunID()).Logger()
	}

	// rejected requests must fail the task so asynq can retry 429 and 5xx
	client, err := setup.Client(cfg, creds, rec, logger, garmin.WithStrictStatus())
	if err != nil {
		logger.Fatal().Err(err).Msg("garmin client")
	}
	// the index must be current before saving or nothing is deduplicated
	if _, err := client.LoadAll(ctx); err != nil {
		logger.Fatal().Err(err).Msg("load workouts")
	}

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		// one at a time: saves of the same workout must not race
		Concurrency: 1,
		Queues: map[string]int{
			jobs.QueueSchedule: 10,
			"default":          5,
		},
		Logger:   asynqLogger{logger},
		LogLevel: asynq.WarnLevel,
	})
	mux := asynq.NewServeMux()
	mux.Handle(jobs.TaskScheduleWorkout, jobs.NewScheduleHandler(client, catalog.Default().Workout, logger))

	logger.Info().Msg("worker running")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped")
	}
}

// asynqLogger routes asynq's own messages through zerolog.
type asynqLogger struct{ log zerolog.Logger }

func (l asynqLogger) Debug(args ...any) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
