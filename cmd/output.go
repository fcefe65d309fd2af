package cmd

import (
	"context"
	"fmt"

	"github.com/chukul/sentinelctl/internal"
	"github.com/spf13/cobra"
)

var outputCmd = &cobra.Command{
	Use:   "output",
	Short: "Control output zones",
}

var outputSetCmd = &cobra.Command{
	Use:   "set <device-id> <zone-id> <value>",
	Short: "Write a value to an output zone",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceID, err := parseID("device", args[0])
		if err != nil {
			return err
		}
		zoneID, err := parseID("zone", args[1])
		if err != nil {
			return err
		}
		value := parseOutputValue(args[2])

		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			err := app.Manager.WithCredential(ctx, func(ctx context.Context, cred *internal.Credential) error {
				return internal.SetOutput(ctx, app.API, cred, deviceID, zoneID, value)
			})
			if err != nil {
				return err
			}
			fmt.Printf("✅ Output zone %d on device %d set to %v\n", zoneID, deviceID, value)
			return nil
		})
	},
}

func init() {
	outputCmd.AddCommand(outputSetCmd)
	rootCmd.AddCommand(outputCmd)
}
