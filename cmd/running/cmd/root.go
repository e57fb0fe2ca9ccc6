package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/toffan/running/internal/catalog"
	"github.com/toffan/running/internal/config"
	"github.com/toffan/running/internal/garmin"
	"github.com/toffan/running/internal/ledger"
	"github.com/toffan/running/internal/setup"
	"github.com/toffan/running/internal/workout"
)

var version = "0.3.0"

// ledgerOff disables the ledger when passed to --ledger.
const ledgerOff = "off"

// app carries the global flags and what the root command builds from them.
type app struct {
	tokenFile   string
	cookiesFile string
	ledgerDSN   string
	verbose     bool

	cfg   *config.Config
	log   zerolog.Logger
	reg   *catalog.Registry
	store ledger.Store
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "running",
		Short: "Heart-rate zone running workouts for Garmin Connect",
		Long: `running builds structured running workouts from a catalog of
heart-rate zone sessions and training plans, and pushes them to
Garmin Connect.

The token and cookies come from a logged-in browser session:
  running -t token.txt -c cookies.txt plan schedule marathon_1 --start 2025-01-06`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.store != nil {
				return a.store.Close()
			}
			return nil
		},
	}
	root.SetVersionTemplate("running version {{.Version}}\n")

	// Global flags
	root.PersistentFlags().StringVarP(&a.tokenFile, "token", "t", "", "file containing a valid token (default $GARMIN_TOKEN_FILE)")
	root.PersistentFlags().StringVarP(&a.cookiesFile, "cookies", "c", "", "file containing valid cookies (default $GARMIN_COOKIES_FILE)")
	root.PersistentFlags().StringVar(&a.ledgerDSN, "ledger", "", `ledger file or postgres URL, "off" to disable (default $RUNNING_LEDGER)`)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newCatalogCmd(a),
		newShowCmd(a),
		newRenderCmd(a),
		newExportCmd(a),
		newPullCmd(a),
		newSaveCmd(a),
		newDeleteCmd(a),
		newScheduleCmd(a),
		newPlanCmd(a),
		newHistoryCmd(a),
		newInitCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Level()
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.log = setup.Logger(cmd.ErrOrStderr(), level)
	a.reg = catalog.Default()
	return nil
}

// ledger opens the store once. It returns nil when the ledger is disabled.
func (a *app) ledger(ctx context.Context) (ledger.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	dsn := a.ledgerDSN
	if dsn == "" {
		dsn = a.cfg.Running.Ledger
	}
	if dsn == "" || dsn == ledgerOff {
		return nil, nil
	}
	store, err := ledger.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.log = a.log.With().Str("run", store.RunID()).Logger()
	return store, nil
}

// client connects to the platform and loads the current workout index.
func (a *app) client(ctx context.Context) (*garmin.Client, error) {
	tokenFile, cookiesFile := a.tokenFile, a.cookiesFile
	if tokenFile == "" {
		tokenFile = a.cfg.Garmin.TokenFile
	}
	if cookiesFile == "" {
		cookiesFile = a.cfg.Garmin.CookiesFile
	}
	if tokenFile == "" || cookiesFile == "" {
		return nil, errors.New("--token and --cookies are required")
	}
	creds, err := garmin.LoadCredentials(tokenFile, cookiesFile)
	if err != nil {
		return nil, err
	}

	store, err := a.ledger(ctx)
	if err != nil {
		return nil, err
	}
	var rec garmin.Recorder
	if store != nil {
		rec = store
	}

	c, err := setup.Client(a.cfg, creds, rec, a.log)
	if err != nil {
		return nil, err
	}
	if _, err := c.LoadAll(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// workouts resolves names against the catalog.
func (a *app) workouts(names []string) ([]*workout.Workout, error) {
	out := make([]*workout.Workout, 0, len(names))
	for _, name := range names {
		w, err := a.reg.Workout(name)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
