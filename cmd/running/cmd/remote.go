package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/toffan/running/internal/garmin"
)

func newPullCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "List the workouts saved on Garmin Connect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			index := c.Workouts()
			names := make([]string, 0, len(index))
			for name := range index {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				printf(cmd.OutOrStdout(), "%s\t%v\n", name, index[name])
			}
			return nil
		},
	}
}

func newSaveCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "save NAME...",
		Short: "Create catalog workouts on Garmin Connect",
		Long: `Create catalog workouts on Garmin Connect.

A workout whose name already exists is skipped unless --force is given
or RUNNING_SAVE_POLICY=force, in which case a duplicate is created.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workouts(args)
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, w := range ws {
				res, err := c.Save(cmd.Context(), w, force)
				if err != nil {
					return err
				}
				switch {
				case res.Created:
					printf(out, "saved %s (id: %d)\n", w.Name, res.ID)
				case res.ID != 0:
					printf(out, "exists %s (id: %d)\n", w.Name, res.ID)
				default:
					printf(out, "rejected %s\n", w.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "create even if the name already exists")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var all, yes bool
	cmd := &cobra.Command{
		Use:   "delete NAME... | --all",
		Short: "Delete workouts from Garmin Connect by name",
		Long: `Delete workouts from Garmin Connect by name. Every workout carrying
the name is removed, duplicates included.

Examples:
  running delete "Tempo run 1"
  running delete --all --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("give workout names or --all, not both")
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}

			if !all {
				for _, name := range args {
					if len(c.IDs(name)) == 0 {
						a.log.Warn().Str("workout", name).Msg("no such workout on the platform")
						continue
					}
					if err := c.Delete(cmd.Context(), name); err != nil {
						return err
					}
					printf(cmd.OutOrStdout(), "deleted %s\n", name)
				}
				return nil
			}

			n := len(c.Workouts())
			if !yes {
				ok, err := confirm(fmt.Sprintf("Delete all %d workouts?", n))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			if err := c.DeleteAll(cmd.Context()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "deleted %d workouts\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every workout")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks on the terminal. Without one it refuses.
func confirm(msg string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("not a terminal, pass --yes to confirm")
	}
	ok := false
	prompt := &survey.Confirm{Message: msg, Default: false}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func newScheduleCmd(a *app) *cobra.Command {
	var (
		on     string
		noSave bool
	)
	cmd := &cobra.Command{
		Use:   "schedule NAME --on DATE",
		Short: "Put a catalog workout on the calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(on)
			if err != nil {
				return err
			}
			w, err := a.reg.Workout(args[0])
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.ScheduleOn(cmd.Context(), w, day, !noSave); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "scheduled %s on %s\n", w.Name, day.Format(garmin.DateLayout))
			return nil
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "only schedule workouts already saved")
	_ = cmd.MarkFlagRequired("on")
	return cmd
}

func parseDay(s string) (time.Time, error) {
	d, err := time.Parse(garmin.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}
