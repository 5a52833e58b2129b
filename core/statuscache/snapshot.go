package statuscache

import (
	"context"
	"time"
)

// Unknown marks a reading the provider could not obtain.
const Unknown = -1

// Snapshot is a point-in-time view of the host.
type Snapshot struct {
	// Battery is the charge level in percent.
	Battery int `json:"battery"`
	// BatteryTemperature is in degrees Celsius.
	BatteryTemperature float64 `json:"batteryTemperature"`
	// CPUTemperature is in degrees Celsius.
	CPUTemperature float64 `json:"cpuTemperature"`
	// CPUUsage is the busy share of all CPUs in percent.
	CPUUsage float64 `json:"cpu"`
	// WifiStatus is "enabled" or "disabled".
	WifiStatus string `json:"wifiStatus"`
	// Interfaces lists the wireless interfaces that are up.
	Interfaces []string `json:"interfaces,omitempty"`
	// Timestamp is when the snapshot was computed, in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// ComputedAt returns the computation time.
func (s Snapshot) ComputedAt() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Provider computes snapshots. Snapshot may block.
type Provider interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Resetter is implemented by providers that keep state between samples.
type Resetter interface {
	Reset()
}
