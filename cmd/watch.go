package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chukul/sentinelctl/internal"
	"github.com/spf13/cobra"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <device-id>",
	Short: "Poll a device and print its zone readings",
	Long: `Poll a device until interrupted. Every tick reuses the cached session and
logs in again only when it is about to expire.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceID, err := parseID("device", args[0])
		if err != nil {
			return err
		}
		if watchInterval < time.Second {
			return errors.New("--interval must be at least 1s")
		}

		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			fmt.Printf("👀 Watching device %d every %s (Ctrl+C to stop)\n", deviceID, watchInterval)

			ticker := time.NewTicker(watchInterval)
			defer ticker.Stop()

			for {
				watchTick(ctx, app, deviceID)

				select {
				case <-ctx.Done():
					fmt.Println("🛑 Stopped.")
					return nil
				case <-ticker.C:
				}
			}
		})
	},
}

// watchTick prints one poll. Errors are reported and the loop keeps going.
func watchTick(ctx context.Context, app *internal.App, deviceID int64) {
	stamp := timeNow().Format(internal.LogTimeFormat)

	var devices []internal.Device
	err := app.Manager.WithCredential(ctx, func(ctx context.Context, cred *internal.Credential) error {
		var err error
		devices, err = internal.GetDevice(ctx, app.API, cred, deviceID)
		return err
	})
	if err != nil {
		if ctx.Err() == nil {
			fmt.Printf("[%s] ❌ %v\n", stamp, err)
		}
		return
	}

	for _, d := range devices {
		for _, z := range d.Zones {
			fmt.Printf("[%s] %-20s %-30s %s %s\n", stamp, truncateText(d.Name, 20), truncateText(z.Name, 30), formatValue(z.Value), z.Units)
		}
	}
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 5*time.Minute, "Poll interval")
	rootCmd.AddCommand(watchCmd)
}
