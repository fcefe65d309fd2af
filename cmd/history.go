package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chukul/sentinelctl/internal"
	"github.com/chukul/sentinelctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	historyZones string
	historyHours int
)

var historyCmd = &cobra.Command{
	Use:   "history <device-id>",
	Short: "Print the data log of selected zones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceID, err := parseID("device", args[0])
		if err != nil {
			return err
		}
		zoneIDs, err := parseIDList("zone", historyZones)
		if err != nil {
			return err
		}
		if historyHours <= 0 {
			return errors.New("--hours must be positive")
		}
		since := time.Duration(historyHours) * time.Hour

		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			var data json.RawMessage
			err := app.Manager.WithCredential(ctx, func(ctx context.Context, cred *internal.Credential) error {
				var err error
				data, err = ui.Spin("Reading data log...", func() (json.RawMessage, error) {
					return internal.DeviceHistory(ctx, app.API, cred, deviceID, zoneIDs, since, timeNow())
				})
				return err
			})
			if err != nil {
				return err
			}

			if len(data) == 0 {
				fmt.Println("📭 No history returned.")
				return nil
			}
			var out bytes.Buffer
			if err := json.Indent(&out, data, "", "  "); err != nil {
				return fmt.Errorf("format data log: %w", err)
			}
			fmt.Println(out.String())
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyZones, "zones", "", "Comma separated zone ids, e.g. 1,2")
	historyCmd.Flags().IntVar(&historyHours, "hours", 10, "How many hours back to read")
	_ = historyCmd.MarkFlagRequired("zones")
	rootCmd.AddCommand(historyCmd)
}
