package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/toffan/running/internal/setup"
)

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [family]",
		Short: "List workout families, or the workouts of one family",
		Long: `List workout families, or the workouts of one family.

Examples:
  running catalog              # families with their sizes
  running catalog tempo_run    # Tempo run 1 .. Tempo run 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, f := range a.reg.Families() {
					printf(out, "%-28s %3d  %s\n", f.Key, len(f.Workouts), f.Title)
				}
				return nil
			}

			f, ok := a.reg.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown family %q", args[0])
			}
			for _, w := range f.Workouts {
				printf(out, "%s\n", w.Name)
			}
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME...",
		Short: "Print workouts as step trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workouts(args)
			if err != nil {
				return err
			}
			for _, w := range ws {
				printf(cmd.OutOrStdout(), "%s\n", w.Display())
			}
			return nil
		},
	}
}

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render NAME",
		Short: "Print the Garmin document of a workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.reg.Workout(args[0])
			if err != nil {
				return err
			}
			ser, err := setup.Serializer(a.cfg)
			if err != nil {
				return err
			}
			doc, err := ser.Serialize(w)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the Garmin document of every catalog workout to a directory",
		Long: `Write the Garmin document of every catalog workout to a directory,
one file per workout named after it, e.g. tempo_run_4.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ser, err := setup.Serializer(a.cfg)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			ws := a.reg.Workouts()
			g, _ := errgroup.WithContext(cmd.Context())
			g.SetLimit(8)
			for _, w := range ws {
				g.Go(func() error {
					b, err := ser.Marshal(w)
					if err != nil {
						return fmt.Errorf("%s: %w", w.Name, err)
					}
					return os.WriteFile(filepath.Join(dir, fileName(w.Name)), b, 0o644)
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			a.log.Info().Int("workouts", len(ws)).Str("dir", dir).Msg("exported")
			printf(cmd.OutOrStdout(), "exported %d workouts to %s\n", len(ws), dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "workouts", "output directory")
	return cmd
}

// fileName turns "Long run with speed play 3" into "long_run_with_speed_play_3.json".
func fileName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_") + ".json"
}
