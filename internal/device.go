package internal

import (
	"context"
	"fmt"
)

// sessionRequest carries the fields every authenticated request shares.
type sessionRequest struct {
	RequestType string    `json:"request_type"`
	Resource    string    `json:"resource,omitempty"`
	AcctID      AccountID `json:"acctid"`
	Session     string    `json:"session"`
}

func newSessionRequest(cred *Credential, requestType, resource string) sessionRequest {
	return sessionRequest{
		RequestType: requestType,
		Resource:    resource,
		AcctID:      cred.AcctID,
		Session:     cred.Session,
	}
}

type deviceRequest struct {
	sessionRequest
	Device []deviceSelector `json:"device"`
}

type deviceSelector struct {
	DeviceID int64          `json:"device_id"`
	Zone     []zoneSelector `json:"zone,omitempty"`
}

type zoneSelector struct {
	ZoneID     int64       `json:"zone_id"`
	OutputZone *outputZone `json:"output_zone,omitempty"`
}

type outputZone struct {
	Value any `json:"value"`
}

type wireZone struct {
	Name   string `json:"name"`
	ZoneID int64  `json:"zone_id"`
	Type   string `json:"type"`
	Units  string `json:"units"`
	Value  any    `json:"value"`
	Enable bool   `json:"enable"`
}

type wireDevice struct {
	Name        string     `json:"name"`
	DeviceID    int64      `json:"device_id"`
	Description string     `json:"description"`
	Zone        []wireZone `json:"zone"`
}

type deviceResponse struct {
	Device []wireDevice `json:"device"`
}

// ListDevices returns every device on the account with its enabled zones.
func ListDevices(ctx context.Context, api *Client, cred *Credential) ([]Device, error) {
	// A null device selector asks for all devices.
	req := deviceRequest{sessionRequest: newSessionRequest(cred, "read", "device")}

	var res deviceResponse
	if err := api.do(ctx, EndpointDevice, req, &res); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return mapDevices(res.Device), nil
}

// GetDevice returns a single device with its enabled zones.
func GetDevice(ctx context.Context, api *Client, cred *Credential, deviceID int64) ([]Device, error) {
	req := deviceRequest{
		sessionRequest: newSessionRequest(cred, "read", "device"),
		Device:         []deviceSelector{{DeviceID: deviceID}},
	}

	var res deviceResponse
	if err := api.do(ctx, EndpointDevice, req, &res); err != nil {
		return nil, fmt.Errorf("get device %d: %w", deviceID, err)
	}
	return mapDevices(res.Device), nil
}

// GetZone returns one zone of a device, enabled or not.
func GetZone(ctx context.Context, api *Client, cred *Credential, deviceID, zoneID int64) (*Zone, error) {
	req := deviceRequest{
		sessionRequest: newSessionRequest(cred, "read", "device"),
		Device: []deviceSelector{{
			DeviceID: deviceID,
			Zone:     []zoneSelector{{ZoneID: zoneID}},
		}},
	}

	var res deviceResponse
	if err := api.do(ctx, EndpointDeviceZone, req, &res); err != nil {
		return nil, fmt.Errorf("get zone %d/%d: %w", deviceID, zoneID, err)
	}

	for _, d := range res.Device {
		for _, z := range d.Zone {
			if z.ZoneID == zoneID {
				zone := mapZone(z)
				return &zone, nil
			}
		}
	}
	return nil, fmt.Errorf("get zone %d/%d: %w", deviceID, zoneID, ErrZoneNotFound)
}

func mapDevices(in []wireDevice) []Device {
	devices := make([]Device, 0, len(in))
	for _, d := range in {
		zones := []Zone{}
		for _, z := range d.Zone {
			if z.Enable {
				zones = append(zones, mapZone(z))
			}
		}
		devices = append(devices, Device{
			Name:        d.Name,
			DeviceID:    d.DeviceID,
			Description: d.Description,
			Zones:       zones,
		})
	}
	return devices
}

func mapZone(z wireZone) Zone {
	return Zone{
		Name:       z.Name,
		ZoneID:     z.ZoneID,
		SensorType: z.Type,
		Units:      z.Units,
		Value:      z.Value,
		Enabled:    z.Enable,
	}
}
