package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chukul/sentinelctl/internal"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	outputJSON bool
	timeNow    = time.Now
)

type statusReport struct {
	State     string    `json:"state"`
	Store     string    `json:"store"`
	AcctID    string    `json:"acctid,omitempty"`
	IssuedAt  time.Time `json:"issued_at,omitzero"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Remaining string    `json:"remaining,omitempty"`
	Threshold string    `json:"refresh_threshold"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cached session, its expiration and remaining time",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			state, cred, err := app.Manager.Status(ctx)
			if err != nil {
				logger.Warn("reading credential store", "error", err)
			}

			report := statusReport{
				State:     state.String(),
				Store:     app.Config.StoreBackend(),
				Threshold: app.Manager.Threshold().String(),
			}
			if cred != nil {
				report.AcctID = cred.AcctID.String()
				report.IssuedAt = cred.IssuedAt
				report.ExpiresAt = cred.ExpiresAt
				report.Remaining = internal.FormatRemaining(cred.Remaining(timeNow()))
			}

			if outputJSON {
				return printJSON(report)
			}

			header := color.New(color.FgCyan, color.Bold).SprintFunc()
			fmt.Printf("%-12s %-22s %-22s %-15s %-10s\n",
				header("ACCOUNT"), header("ISSUED"), header("EXPIRATION"), header("REMAINING"), header("STATUS"))
			fmt.Println(strings.Repeat("-", 85))

			statusColor := color.New(color.FgGreen).SprintFunc()
			switch state {
			case internal.StateExpiringSoon:
				statusColor = color.New(color.FgYellow).SprintFunc()
			case internal.StateNoCredential, internal.StateInvalid:
				statusColor = color.New(color.FgRed).SprintFunc()
			}

			if cred == nil {
				fmt.Printf("%-12s %-22s %-22s %-15s %-10s\n", "-", "-", "-", "-", statusColor(report.State))
				fmt.Println("\n💡 Run 'sentinelctl login' to create a session.")
				return nil
			}

			fmt.Printf("%-12s %-22s %-22s %-15s %-10s\n",
				truncateText(report.AcctID, 12),
				internal.FormatLocal(cred.IssuedAt),
				internal.FormatLocal(cred.ExpiresAt),
				report.Remaining,
				statusColor(report.State),
			)
			if state == internal.StateExpiringSoon {
				fmt.Printf("\n⚠️  Less than %s left; the next API command logs in again.\n", report.Threshold)
			}
			return nil
		})
	},
}

func init() {
	statusCmd.Flags().BoolVar(&outputJSON, "json", false, "Output results in JSON format for automation")
	rootCmd.AddCommand(statusCmd)
}
