package cmd

import (
	"context"
	"fmt"

	"github.com/chukul/sentinelctl/internal"
	"github.com/chukul/sentinelctl/internal/ui"
	"github.com/spf13/cobra"
)

var loginReuse bool

func init() {
	loginCmd.Flags().BoolVar(&loginReuse, "reuse", false, "Keep the cached session if it is still comfortably valid")
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Sentinel and cache the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			fmt.Printf("🔐 Logging in to %s as %s...\n", app.Config.BaseURL, app.Config.Username)

			cred, err := ui.Spin("Contacting Sentinel...", func() (*internal.Credential, error) {
				if loginReuse {
					return app.Manager.EnsureValid(ctx)
				}
				return app.Manager.Login(ctx)
			})
			if err != nil {
				return err
			}

			fmt.Printf("✅ Session for account %s stored (%s backend)\n", cred.AcctID, app.Config.StoreBackend())
			fmt.Printf("   Expires %s (%s)\n", internal.FormatLocal(cred.ExpiresAt), internal.FormatRemaining(cred.Remaining(timeNow())))
			return nil
		})
	},
}
