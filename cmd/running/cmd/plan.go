package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/toffan/running/internal/garmin"
	"github.com/toffan/running/internal/jobs"
	"github.com/toffan/running/internal/plans"
	"github.com/toffan/running/internal/workout"
)

func newPlanCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Training plans",
	}
	cmd.PersistentFlags().StringVar(&file, "file", "", "read the plan from a YAML file instead of the built-in ones")

	load := func(name string) (*plans.Plan, error) {
		if file != "" {
			return plans.LoadFile(file, a.reg)
		}
		set, err := plans.Builtin(a.reg)
		if err != nil {
			return nil, err
		}
		return set.Get(name)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the built-in plans",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				set, err := plans.Builtin(a.reg)
				if err != nil {
					return err
				}
				for _, name := range set.Names() {
					p := set[name]
					printf(cmd.OutOrStdout(), "%-18s %2d weeks  %s\n", p.Name, len(p.Weeks), p.Title)
				}
				return nil
			},
		},
		newPlanShowCmd(load),
		newPlanSaveCmd(a, load),
		newPlanDeleteCmd(a, load),
		newPlanScheduleCmd(a, load),
	)
	return cmd
}

func newPlanShowCmd(load func(string) (*plans.Plan, error)) *cobra.Command {
	var week, only string
	cmd := &cobra.Command{
		Use:   "show PLAN",
		Short: "Print a plan week by week",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := load(firstArg(args))
			if err != nil {
				return err
			}
			if week != "" {
				if p, err = p.From(week); err != nil {
					return err
				}
			}
			weeks := p.Weeks
			if only != "" {
				wk, ok := p.Week(only)
				if !ok {
					return fmt.Errorf("plan %s has no week %q", p.Name, only)
				}
				weeks = []plans.Week{*wk}
			}
			out := cmd.OutOrStdout()
			printf(out, "%s\n", p.Title)
			for _, wk := range weeks {
				days := make([]string, 0, plans.DaysPerWeek)
				for _, d := range wk.Days {
					if d == nil {
						days = append(days, "-")
						continue
					}
					days = append(days, d.Name)
				}
				printf(out, "%s: %s\n", wk.Label, strings.Join(days, " | "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "start at this week label")
	cmd.Flags().StringVar(&only, "only", "", "print only this week")
	return cmd
}

func newPlanSaveCmd(a *app, load func(string) (*plans.Plan, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "save PLAN",
		Short: "Create every workout a plan uses on Garmin Connect",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := load(firstArg(args))
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			created := 0
			ws := p.Workouts()
			for _, w := range ws {
				res, err := c.Save(cmd.Context(), w, false)
				if err != nil {
					return err
				}
				if res.Created {
					created++
				}
			}
			printf(cmd.OutOrStdout(), "saved %d of %d workouts of %s\n", created, len(ws), p.Name)
			return nil
		},
	}
}

func newPlanDeleteCmd(a *app, load func(string) (*plans.Plan, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete PLAN",
		Short: "Delete every workout a plan uses from Garmin Connect",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := load(firstArg(args))
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			deleted := 0
			for _, w := range p.Workouts() {
				if len(c.IDs(w.Name)) == 0 {
					continue
				}
				if err := c.DeleteWorkout(cmd.Context(), w); err != nil {
					return err
				}
				deleted++
			}
			printf(cmd.OutOrStdout(), "deleted %d workouts of %s\n", deleted, p.Name)
			return nil
		},
	}
}

func newPlanScheduleCmd(a *app, load func(string) (*plans.Plan, error)) *cobra.Command {
	var (
		start  string
		week   string
		resume bool
		async  bool
		noSave bool
	)
	cmd := &cobra.Command{
		Use:   "schedule PLAN --start DATE",
		Short: "Put a whole plan on the calendar",
		Long: `Put a whole plan on the calendar, one day per slot from --start.
Rest days are skipped but still take their day.

Examples:
  running plan schedule marathon_1 --start 2025-01-06
  running plan schedule marathon_1 --start 2025-03-03 --week W09
  running plan schedule marathon_1 --start 2025-01-06 --resume
  running plan schedule marathon_1 --start 2025-01-06 --async`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := parseDay(start)
			if err != nil {
				return err
			}
			p, err := load(firstArg(args))
			if err != nil {
				return err
			}
			if week != "" {
				if p, err = p.From(week); err != nil {
					return err
				}
			}
			slots := p.Slots()

			if resume {
				if slots, err = a.pending(ctx, slots, day); err != nil {
					return err
				}
			}

			if async {
				queue := asynq.NewClient(asynq.RedisClientOpt{Addr: a.cfg.RedisAddr})
				defer queue.Close()
				res, err := jobs.EnqueuePlan(ctx, queue, slots, day, !noSave)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "queued %d workouts of %s (%d already queued)\n", res.Queued, p.Name, res.Duplicate)
				return nil
			}

			c, err := a.client(ctx)
			if err != nil {
				return err
			}
			if err := c.ScheduleSequentially(ctx, slots, day, !noSave); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "scheduled %s from %s to %s\n", p.Name,
				day.Format(garmin.DateLayout), day.AddDate(0, 0, len(slots)-1).Format(garmin.DateLayout))
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "date of the first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&week, "week", "", "start at this week label")
	cmd.Flags().BoolVar(&resume, "resume", false, "skip slots the ledger already has scheduled")
	cmd.Flags().BoolVar(&async, "async", false, "queue the plan for the worker instead")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "only schedule workouts already saved")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

// pending blanks the slots the ledger has already scheduled on their day.
func (a *app) pending(ctx context.Context, slots []*workout.Workout, start time.Time) ([]*workout.Workout, error) {
	store, err := a.ledger(ctx)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("--resume needs the ledger")
	}
	out := make([]*workout.Workout, len(slots))
	skipped := 0
	for i, w := range slots {
		if w == nil {
			continue
		}
		done, err := store.IsScheduled(ctx, w.Name, start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		if done {
			skipped++
			continue
		}
		out[i] = w
	}
	a.log.Info().Int("skipped", skipped).Msg("resuming plan")
	return out, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
