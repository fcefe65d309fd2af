package cmd

import (
	"context"
	"fmt"

	"github.com/chukul/sentinelctl/internal"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a valid session as environment variables",
	Long: `Print shell export statements for a valid session, logging in first if the
cached one is missing or about to expire. Use with eval $(sentinelctl export).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			cred, err := app.Manager.EnsureValid(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("export SENTINEL_SESSION=%s\n", shellQuote(cred.Session))
			fmt.Printf("export SENTINEL_ACCTID=%s\n", shellQuote(cred.AcctID.String()))
			fmt.Printf("export SENTINEL_SESSION_EXPIRATION=%d\n", cred.ExpiresAt.Unix())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
