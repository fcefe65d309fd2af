package internal

import (
	"context"
	"fmt"
)

// SetOutput writes value to an output zone, e.g. switching a pump relay.
func SetOutput(ctx context.Context, api *Client, cred *Credential, deviceID, zoneID int64, value any) error {
	req := deviceRequest{
		sessionRequest: newSessionRequest(cred, "update", "device"),
		Device: []deviceSelector{{
			DeviceID: deviceID,
			Zone: []zoneSelector{{
				ZoneID:     zoneID,
				OutputZone: &outputZone{Value: value},
			}},
		}},
	}

	if err := api.do(ctx, EndpointDeviceZone, req, nil); err != nil {
		return fmt.Errorf("set output %d/%d: %w", deviceID, zoneID, err)
	}
	return nil
}
