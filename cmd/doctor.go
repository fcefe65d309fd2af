package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/chukul/sentinelctl/internal"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type checkResult struct {
	name   string
	ok     bool
	detail string
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check config, AWS access, password source and cached session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var results []checkResult
		add := func(name string, err error, detail string) {
			if err != nil {
				detail = err.Error()
			}
			results = append(results, checkResult{name: name, ok: err == nil, detail: detail})
		}

		cfg, err := internal.LoadConfig(configPath)
		add("config", err, configPathLabel())
		if err != nil {
			printChecks(results)
			return errors.New("config is not usable")
		}

		var usernameErr error
		if cfg.Username == "" {
			usernameErr = errors.New("username is empty; run 'sentinelctl init'")
		}
		add("username", usernameErr, cfg.Username)

		app, err := internal.NewApp(ctx, cfg, logger)
		add("store", err, fmt.Sprintf("%s backend", cfg.StoreBackend()))
		if err != nil {
			printChecks(results)
			return errors.New("some checks failed")
		}
		defer func() {
			if err := app.Close(); err != nil {
				logger.Warn("closing store", "error", err)
			}
		}()

		results = append(results, checkPassword(ctx, app))

		state, cred, err := app.Manager.Status(ctx)
		detail := state.String()
		if cred != nil {
			detail = fmt.Sprintf("%s, %s", state, internal.FormatRemaining(cred.Remaining(timeNow())))
		}
		add("session", err, detail)

		printChecks(results)
		for _, r := range results {
			if !r.ok {
				return errors.New("some checks failed")
			}
		}
		return nil
	},
}

// checkPassword verifies the source login will take the password from.
func checkPassword(ctx context.Context, app *internal.App) checkResult {
	if os.Getenv(internal.PasswordEnv) != "" {
		return checkResult{name: "password", ok: true, detail: "from " + internal.PasswordEnv}
	}

	if _, err := os.Stat(app.Config.CiphertextPath); err != nil {
		return checkResult{name: "password", detail: fmt.Sprintf("ciphertext: %v; run 'sentinelctl secret encrypt'", err)}
	}

	id, err := internal.CallerIdentity(ctx, internal.NewSTSClient(app.AWS))
	if err != nil {
		return checkResult{name: "password", detail: err.Error()}
	}
	return checkResult{
		name:   "password",
		ok:     true,
		detail: fmt.Sprintf("KMS in %s as %s", app.Config.Region, id.Arn),
	}
}

func configPathLabel() string {
	if configPath != "" {
		return configPath
	}
	if _, err := os.Stat(internal.DefaultConfigPath()); err != nil {
		return "defaults (no config file)"
	}
	return internal.DefaultConfigPath()
}

func printChecks(results []checkResult) {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	for _, r := range results {
		mark := pass("✔")
		if !r.ok {
			mark = fail("✘")
		}
		fmt.Printf("%s %-10s %s\n", mark, r.name, r.detail)
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
