package status

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"hotspot-control/core/statuscache"

	"go.uber.org/zap"
)

// SystemInfo is a snapshot with host identity.
type SystemInfo struct {
	Hostname  string `json:"device"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	GoVersion string `json:"runtime"`
	NumCPU    int    `json:"numCpu"`
	statuscache.Snapshot
}

// Service reads snapshots from the cache.
type Service struct {
	cache    *statuscache.Cache
	logger   *zap.Logger
	hostname func() (string, error)
	now      func() time.Time
}

// NewService creates a new status service.
func NewService(cache *statuscache.Cache, logger *zap.Logger) *Service {
	return &Service{
		cache:    cache,
		logger:   logger,
		hostname: os.Hostname,
		now:      time.Now,
	}
}

// Status returns the current snapshot.
func (s *Service) Status(ctx context.Context) (statuscache.Snapshot, error) {
	return s.cache.Get(ctx)
}

// SystemInfo returns the snapshot together with host identity.
func (s *Service) SystemInfo(ctx context.Context) (SystemInfo, error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return SystemInfo{}, err
	}

	host, err := s.hostname()
	if err != nil {
		s.logger.Debug("Failed to read hostname", zap.Error(err))
		host = "unknown"
	}

	return SystemInfo{
		Hostname:  host,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		GoVersion: runtime.Version(),
		NumCPU:    runtime.NumCPU(),
		Snapshot:  snap,
	}, nil
}

// DebugReport renders the readings and cache state as text.
func (s *Service) DebugReport(ctx context.Context) (string, error) {
	cached, wasCached := s.cache.Peek()

	snap, err := s.cache.Get(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("System status debug report\n\n")

	b.WriteString("Battery:\n")
	fmt.Fprintf(&b, "- level: %s\n", reading(float64(snap.Battery), "%"))
	fmt.Fprintf(&b, "- temperature: %s\n\n", reading(snap.BatteryTemperature, "°C"))

	b.WriteString("CPU:\n")
	fmt.Fprintf(&b, "- usage: %s\n", reading(snap.CPUUsage, "%"))
	fmt.Fprintf(&b, "- temperature: %s\n\n", reading(snap.CPUTemperature, "°C"))

	b.WriteString("WiFi:\n")
	fmt.Fprintf(&b, "- status: %s\n", snap.WifiStatus)
	if len(snap.Interfaces) > 0 {
		fmt.Fprintf(&b, "- interfaces: %s\n", strings.Join(snap.Interfaces, ", "))
	}
	b.WriteString("\n")

	b.WriteString("Cache:\n")
	if wasCached {
		fmt.Fprintf(&b, "- state: cached\n- computed at: %s\n", cached.ComputedAt().Format(time.RFC3339Nano))
	} else {
		b.WriteString("- state: empty\n")
	}
	fmt.Fprintf(&b, "- ttl: %s\n", s.cache.TTL())
	fmt.Fprintf(&b, "- now: %s\n", s.now().Format(time.RFC3339Nano))

	return b.String(), nil
}

func reading(v float64, unit string) string {
	if v == statuscache.Unknown {
		return "unavailable"
	}
	return fmt.Sprintf("%.1f%s", v, unit)
}
