// Package setup wires configuration into the objects the binaries share.
package setup

import (
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/toffan/running/internal/cache"
	"github.com/toffan/running/internal/config"
	"github.com/toffan/running/internal/garmin"
)

// Logger writes human readable lines to w at the given level.
func Logger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}

// Serializer builds the serializer for the configured target policy.
func Serializer(cfg *config.Config) (garmin.Serializer, error) {
	targets, err := cfg.RoleTargets()
	if err != nil {
		return garmin.Serializer{}, err
	}
	return garmin.NewSerializer(garmin.WithRoleTargets(targets)), nil
}

// Client creates the platform client behind a caching transport.
// rec may be nil. extra options are applied last.
func Client(cfg *config.Config, creds garmin.Credentials, rec garmin.Recorder, log zerolog.Logger, extra ...garmin.Option) (*garmin.Client, error) {
	policy, err := cfg.DuplicatePolicy()
	if err != nil {
		return nil, err
	}
	ser, err := Serializer(cfg)
	if err != nil {
		return nil, err
	}
	transport, err := cache.NewTransport(cfg.Running.CacheDir, http.DefaultTransport)
	if err != nil {
		return nil, err
	}

	opts := []garmin.Option{
		garmin.WithBaseURL(cfg.Garmin.BaseURL),
		garmin.WithTimeout(cfg.Garmin.Timeout),
		garmin.WithTransport(transport),
		garmin.WithSerializer(ser),
		garmin.WithDuplicatePolicy(policy),
		garmin.WithLogger(log),
	}
	if rec != nil {
		opts = append(opts, garmin.WithRecorder(rec))
	}
	opts = append(opts, extra...)
	return garmin.New(creds, opts...)
}
