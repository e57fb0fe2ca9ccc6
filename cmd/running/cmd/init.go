package cmd

import (
	"errors"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/toffan/running/internal/setup"
)

func newInitCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the settings to a .env file",
		Long: `Ask for the credential files and defaults, then save them to a
.env file that later commands load automatically. Values given with
the global flags are used without asking.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers := struct {
				Token   string `survey:"token"`
				Cookies string `survey:"cookies"`
				Ledger  string `survey:"ledger"`
				Policy  string `survey:"policy"`
				Targets string `survey:"targets"`
			}{
				Token:   firstNonEmpty(a.tokenFile, a.cfg.Garmin.TokenFile),
				Cookies: firstNonEmpty(a.cookiesFile, a.cfg.Garmin.CookiesFile),
				Ledger:  firstNonEmpty(a.ledgerDSN, a.cfg.Running.Ledger),
				Policy:  a.cfg.Running.SavePolicy,
				Targets: a.cfg.Running.Targets,
			}

			var qs []*survey.Question
			if a.tokenFile == "" {
				qs = append(qs, &survey.Question{
					Name:     "token",
					Prompt:   &survey.Input{Message: "Token file:", Default: answers.Token},
					Validate: survey.Required,
				})
			}
			if a.cookiesFile == "" {
				qs = append(qs, &survey.Question{
					Name:     "cookies",
					Prompt:   &survey.Input{Message: "Cookies file:", Default: answers.Cookies},
					Validate: survey.Required,
				})
			}
			if a.ledgerDSN == "" {
				qs = append(qs, &survey.Question{
					Name:   "ledger",
					Prompt: &survey.Input{Message: `Ledger (file, postgres URL or "off"):`, Default: answers.Ledger},
				})
			}
			qs = append(qs,
				&survey.Question{
					Name: "policy",
					Prompt: &survey.Select{
						Message: "When a workout name already exists:",
						Options: []string{"skip", "force"},
						Default: answers.Policy,
					},
				},
				&survey.Question{
					Name: "targets",
					Prompt: &survey.Select{
						Message: "Heart-rate targets on warmup, cooldown and recovery:",
						Options: []string{"suppress", "none", "heart-rate"},
						Default: answers.Targets,
					},
				},
			)

			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("init needs a terminal")
			}
			if err := survey.Ask(qs, &answers); err != nil {
				return err
			}

			if err := setup.SaveEnv(path, map[string]string{
				"GARMIN_TOKEN_FILE":   answers.Token,
				"GARMIN_COOKIES_FILE": answers.Cookies,
				"RUNNING_LEDGER":      answers.Ledger,
				"RUNNING_SAVE_POLICY": answers.Policy,
				"RUNNING_TARGETS":     answers.Targets,
			}); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "settings saved to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "env-file", ".env", "file to write")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
