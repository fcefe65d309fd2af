package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/chukul/sentinelctl/internal"
	"github.com/chukul/sentinelctl/internal/ui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List every device on the account with its enabled zones",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			var devices []internal.Device
			err := app.Manager.WithCredential(ctx, func(ctx context.Context, cred *internal.Credential) error {
				var err error
				devices, err = ui.Spin("Reading devices...", func() ([]internal.Device, error) {
					return internal.ListDevices(ctx, app.API, cred)
				})
				return err
			})
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(devices)
			}
			if len(devices) == 0 {
				fmt.Println("📭 No devices found.")
				return nil
			}
			printDevices(devices)
			return nil
		})
	},
}

var deviceCmd = &cobra.Command{
	Use:   "device <device-id>",
	Short: "Show one device with its enabled zones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceID, err := parseID("device", args[0])
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			var devices []internal.Device
			err := app.Manager.WithCredential(ctx, func(ctx context.Context, cred *internal.Credential) error {
				var err error
				devices, err = internal.GetDevice(ctx, app.API, cred, deviceID)
				return err
			})
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(devices)
			}
			if len(devices) == 0 {
				return fmt.Errorf("device %d not found", deviceID)
			}
			printDevices(devices)
			return nil
		})
	},
}

func printDevices(devices []internal.Device) {
	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	name := color.New(color.Bold).SprintFunc()

	for i, d := range devices {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("📟 %s (ID %d)", name(d.Name), d.DeviceID)
		if d.Description != "" {
			fmt.Printf(" - %s", d.Description)
		}
		fmt.Println()

		if len(d.Zones) == 0 {
			fmt.Println("   no enabled zones")
			continue
		}

		fmt.Printf("   %-8s %-30s %-12s %-12s %-8s\n",
			header("ZONE"), header("NAME"), header("TYPE"), header("VALUE"), header("UNITS"))
		fmt.Println("   " + strings.Repeat("-", 74))
		for _, z := range d.Zones {
			fmt.Printf("   %-8d %-30s %-12s %-12s %-8s\n",
				z.ZoneID,
				truncateText(z.Name, 30),
				truncateText(z.SensorType, 12),
				truncateText(formatValue(z.Value), 12),
				z.Units,
			)
		}
	}
}

func init() {
	devicesCmd.Flags().BoolVar(&outputJSON, "json", false, "Output results in JSON format for automation")
	deviceCmd.Flags().BoolVar(&outputJSON, "json", false, "Output results in JSON format for automation")
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(deviceCmd)
}
