package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

type historyRequest struct {
	sessionRequest
	History historyQuery `json:"history"`
}

type historyQuery struct {
	DataLogPoints *dataLogPointsQuery `json:"data_log_points,omitempty"`
	DataLog       *dataLogQuery       `json:"data_log,omitempty"`
}

type dataLogPointsQuery struct {
	ResourceType string `json:"resource_type"`
	DeviceID     int64  `json:"device_id"`
}

type dataLogQuery struct {
	LogPoints []int64 `json:"log_points"`
	Start     int64   `json:"start"`
}

// DataLogPoints lists the data log points recorded for a device.
func DataLogPoints(ctx context.Context, api *Client, cred *Credential, deviceID int64) ([]LogPoint, error) {
	req := historyRequest{
		sessionRequest: newSessionRequest(cred, "read", ""),
		History: historyQuery{
			DataLogPoints: &dataLogPointsQuery{ResourceType: "device", DeviceID: deviceID},
		},
	}

	var res struct {
		History struct {
			DataLogPoints struct {
				LogPoints []LogPoint `json:"log_points"`
			} `json:"data_log_points"`
		} `json:"history"`
	}
	if err := api.do(ctx, EndpointDataLogPoints, req, &res); err != nil {
		return nil, fmt.Errorf("data log points for device %d: %w", deviceID, err)
	}
	return res.History.DataLogPoints.LogPoints, nil
}

// DataLog reads the history of the given log points from start onwards.
// start is a packed Sentinel timestamp, see SentinelTimestamp. The data log
// object is returned undecoded.
func DataLog(ctx context.Context, api *Client, cred *Credential, logPoints []int64, start int64) (json.RawMessage, error) {
	if logPoints == nil {
		logPoints = []int64{}
	}
	req := historyRequest{
		sessionRequest: newSessionRequest(cred, "read", ""),
		History: historyQuery{
			DataLog: &dataLogQuery{LogPoints: logPoints, Start: start},
		},
	}

	var res struct {
		History struct {
			DataLog json.RawMessage `json:"data_log"`
		} `json:"history"`
	}
	if err := api.do(ctx, EndpointDataLog, req, &res); err != nil {
		return nil, fmt.Errorf("data log: %w", err)
	}
	return res.History.DataLog, nil
}

// DeviceHistory reads the data log of the given zones of a device covering
// the last since.
func DeviceHistory(ctx context.Context, api *Client, cred *Credential, deviceID int64, zoneIDs []int64, since time.Duration, now time.Time) (json.RawMessage, error) {
	points, err := DataLogPoints(ctx, api, cred, deviceID)
	if err != nil {
		return nil, err
	}

	var logPoints []int64
	for _, p := range points {
		if slices.Contains(zoneIDs, p.ZoneID) {
			logPoints = append(logPoints, p.LogPoint)
		}
	}

	return DataLog(ctx, api, cred, logPoints, SentinelTimestamp(now.Add(-since)))
}
