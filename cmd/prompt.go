package cmd

import (
	"context"
	"fmt"

	"github.com/chukul/sentinelctl/internal"
	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Display cached session info for a shell prompt",
	Long: `Print the cached account and remaining session time, formatted for a shell
prompt. Prints nothing when no session is cached. Never contacts Sentinel.

  PS1='$(sentinelctl prompt 2>/dev/null) \u@\h:\w\$ '`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = withApp(cmd, func(ctx context.Context, app *internal.App) error {
			state, cred, err := app.Manager.Status(ctx)
			if err != nil || cred == nil {
				return err
			}

			remaining := cred.Remaining(timeNow())
			switch {
			case remaining <= 0:
				fmt.Printf("📟 %s (expired)", cred.AcctID)
			case state == internal.StateExpiringSoon:
				fmt.Printf("📟 %s (%dm!)", cred.AcctID, int(remaining.Minutes()))
			default:
				fmt.Printf("📟 %s (%dh%dm)", cred.AcctID, int(remaining.Hours()), int(remaining.Minutes())%60)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
}
