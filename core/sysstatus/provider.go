package sysstatus

import (
	"context"
	"fmt"
	"math"
	"net"
	"strings"
	"sync"
	"time"

	"hotspot-control/core/statuscache"

	"github.com/prometheus/procfs"
	"github.com/prometheus/procfs/sysfs"
)

const (
	minPlausibleTemp = 20.0
	maxPlausibleTemp = 100.0
)

type cpuSample struct {
	idle  float64
	total float64
}

// Provider implements statuscache.Provider from procfs and sysfs.
type Provider struct {
	proc           procfs.FS
	sys            sysfs.FS
	wifiPrefixes   []string
	listInterfaces func() ([]net.Interface, error)

	mu   sync.Mutex
	prev *cpuSample
}

// New opens the configured mount points.
func New(cfg Config) (*Provider, error) {
	proc, err := procfs.NewFS(cfg.ProcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open procfs: %w", err)
	}
	sys, err := sysfs.NewFS(cfg.SysPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sysfs: %w", err)
	}

	prefixes := cfg.WifiInterfaces
	if len(prefixes) == 0 {
		prefixes = []string{"wlan", "ap"}
	}

	return &Provider{
		proc:           proc,
		sys:            sys,
		wifiPrefixes:   prefixes,
		listInterfaces: net.Interfaces,
	}, nil
}

// Snapshot samples every source. Missing sources never fail the snapshot.
func (p *Provider) Snapshot(ctx context.Context) (statuscache.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return statuscache.Snapshot{}, err
	}

	battery, batteryTemp := p.battery()
	ifaces := p.wifiInterfaces()
	wifi := "disabled"
	if len(ifaces) > 0 {
		wifi = "enabled"
	}

	return statuscache.Snapshot{
		Battery:            battery,
		BatteryTemperature: batteryTemp,
		CPUTemperature:     p.cpuTemperature(),
		CPUUsage:           p.cpuUsage(),
		WifiStatus:         wifi,
		Interfaces:         ifaces,
		Timestamp:          time.Now().UnixMilli(),
	}, nil
}

// Reset forgets the CPU baseline.
func (p *Provider) Reset() {
	p.mu.Lock()
	p.prev = nil
	p.mu.Unlock()
}

func (p *Provider) cpuUsage() float64 {
	stat, err := p.proc.Stat()
	if err != nil {
		return statuscache.Unknown
	}

	c := stat.CPUTotal
	idle := c.Idle + c.Iowait
	total := c.User + c.Nice + c.System + c.Idle + c.Iowait + c.IRQ + c.SoftIRQ + c.Steal
	cur := &cpuSample{idle: idle, total: total}

	p.mu.Lock()
	prev := p.prev
	p.prev = cur
	p.mu.Unlock()

	if prev == nil {
		return 0
	}

	dTotal := cur.total - prev.total
	if dTotal <= 0 {
		return 0
	}
	usage := (1 - (cur.idle-prev.idle)/dTotal) * 100
	return round1(math.Max(0, math.Min(100, usage)))
}

func (p *Provider) cpuTemperature() float64 {
	zones, err := p.sys.ClassThermalZoneStats()
	if err != nil {
		return statuscache.Unknown
	}

	for _, z := range zones {
		temp := float64(z.Temp)
		if temp > 1000 {
			temp /= 1000
		}
		if temp >= minPlausibleTemp && temp <= maxPlausibleTemp {
			return round1(temp)
		}
	}
	return statuscache.Unknown
}

func (p *Provider) battery() (int, float64) {
	supplies, err := p.sys.PowerSupplyClass()
	if err != nil {
		return statuscache.Unknown, statuscache.Unknown
	}

	for _, s := range supplies {
		if !strings.EqualFold(s.Type, "Battery") {
			continue
		}

		level := statuscache.Unknown
		if s.Capacity != nil {
			level = int(*s.Capacity)
		}
		temp := float64(statuscache.Unknown)
		if s.Temp != nil {
			// Reported in tenths of a degree.
			temp = round1(float64(*s.Temp) / 10)
		}
		return level, temp
	}
	return statuscache.Unknown, statuscache.Unknown
}

func (p *Provider) wifiInterfaces() []string {
	ifaces, err := p.listInterfaces()
	if err != nil {
		return nil
	}

	var up []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		for _, prefix := range p.wifiPrefixes {
			if strings.HasPrefix(iface.Name, prefix) {
				up = append(up, iface.Name)
				break
			}
		}
	}
	return up
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
