package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/chukul/sentinelctl/internal"
	"github.com/chukul/sentinelctl/internal/ui"
	"github.com/spf13/cobra"
)

var zoneCmd = &cobra.Command{
	Use:   "zone [device-id] [zone-id]",
	Short: "Show the current reading of one zone",
	Long: `Show one zone. Disabled zones can be read by id. When the device or zone
id is omitted on a terminal, pick it from a menu of enabled zones.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			zone, err := pickThenFetch(ctx, app.Manager,
				func(ctx context.Context, cred *internal.Credential) (int64, int64, error) {
					return resolveZone(ctx, app, cred, args)
				},
				func(ctx context.Context, cred *internal.Credential, deviceID, zoneID int64) (*internal.Zone, error) {
					return internal.GetZone(ctx, app.API, cred, deviceID, zoneID)
				},
			)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(zone)
			}

			state := "enabled"
			if !zone.Enabled {
				state = "disabled"
			}
			fmt.Printf("📍 %s (zone %d, %s)\n", zone.Name, zone.ZoneID, state)
			fmt.Printf("   %s %s [%s]\n", formatValue(zone.Value), zone.Units, zone.SensorType)
			return nil
		})
	},
}

type credentialRunner interface {
	WithCredential(ctx context.Context, fn func(ctx context.Context, cred *internal.Credential) error) error
}

// pickThenFetch settles the ids and then reads the zone, each under its own
// credential, so a session retry of the read never repeats the menus.
func pickThenFetch(
	ctx context.Context,
	run credentialRunner,
	pick func(ctx context.Context, cred *internal.Credential) (int64, int64, error),
	fetch func(ctx context.Context, cred *internal.Credential, deviceID, zoneID int64) (*internal.Zone, error),
) (*internal.Zone, error) {
	var deviceID, zoneID int64
	err := run.WithCredential(ctx, func(ctx context.Context, cred *internal.Credential) error {
		var err error
		deviceID, zoneID, err = pick(ctx, cred)
		return err
	})
	if err != nil {
		return nil, err
	}

	var zone *internal.Zone
	err = run.WithCredential(ctx, func(ctx context.Context, cred *internal.Credential) error {
		var err error
		zone, err = fetch(ctx, cred, deviceID, zoneID)
		return err
	})
	return zone, err
}

// resolveZone takes ids from args, falling back to interactive menus for
// the missing ones. Both ids given means no API call.
func resolveZone(ctx context.Context, app *internal.App, cred *internal.Credential, args []string) (int64, int64, error) {
	if len(args) == 2 {
		deviceID, err := parseID("device", args[0])
		if err != nil {
			return 0, 0, err
		}
		zoneID, err := parseID("zone", args[1])
		return deviceID, zoneID, err
	}
	if !isInteractive() {
		return 0, 0, errors.New("device and zone ids are required when not running on a terminal")
	}

	var devices []internal.Device
	var err error
	if len(args) == 1 {
		deviceID, err := parseID("device", args[0])
		if err != nil {
			return 0, 0, err
		}
		devices, err = internal.GetDevice(ctx, app.API, cred, deviceID)
		if err != nil {
			return 0, 0, err
		}
	} else {
		devices, err = internal.ListDevices(ctx, app.API, cred)
		if err != nil {
			return 0, 0, err
		}
	}
	if len(devices) == 0 {
		return 0, 0, errors.New("no devices found")
	}

	device := devices[0]
	if len(devices) > 1 {
		options := make([]ui.Option, len(devices))
		for i, d := range devices {
			options[i] = ui.Option{Label: fmt.Sprintf("%-30s [%d]", d.Name, d.DeviceID), Value: strconv.Itoa(i)}
		}
		picked, err := ui.Select("Select Device", options)
		if err != nil {
			return 0, 0, err
		}
		i, _ := strconv.Atoi(picked)
		device = devices[i]
	}

	options := make([]ui.Option, len(device.Zones))
	for i, z := range device.Zones {
		options[i] = ui.Option{
			Label: fmt.Sprintf("%-30s %s %s", z.Name, formatValue(z.Value), z.Units),
			Value: strconv.FormatInt(z.ZoneID, 10),
		}
	}
	picked, err := ui.Select(fmt.Sprintf("Select Zone on %s", device.Name), options)
	if err != nil {
		return 0, 0, err
	}
	zoneID, err := parseID("zone", picked)
	return device.DeviceID, zoneID, err
}

func init() {
	zoneCmd.Flags().BoolVar(&outputJSON, "json", false, "Output results in JSON format for automation")
	rootCmd.AddCommand(zoneCmd)
}
