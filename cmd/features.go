package cmd

import (
	"time"

	"hotspot-control/core/config"
	"hotspot-control/core/loader"
	"hotspot-control/core/manager"
	corewifi "hotspot-control/core/wifi"
	"hotspot-control/feature/auth"
	"hotspot-control/feature/network"
	"hotspot-control/feature/status"
	"hotspot-control/feature/wifi"
)

// features returns the factory used for every server instance.
func features(cfg *config.Config, controller corewifi.Controller) manager.FeatureFactory {
	return func(res manager.Resources) []loader.Feature {
		return []loader.Feature{
			status.NewFeature(res.Status, res.Config.DeveloperMode, res.Logger),
			wifi.NewFeature(controller, wifiTimeout(cfg.Wifi), res.Logger),
			network.NewFeature(cfg.Network, res.Outbound, res.Logger),
			auth.NewFeature(res.Config, res.Control, res.Logger),
		}
	}
}

// wifiTimeout bounds one controller call from the HTTP side.
func wifiTimeout(cfg corewifi.Config) time.Duration {
	if cfg.Driver == corewifi.DriverMQTT {
		return cfg.MQTT.Timeout
	}
	return cfg.CommandTimeout
}
