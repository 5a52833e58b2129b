// Package config provides configuration management for hotspot-control.
//
// Values come from environment variables, optionally loaded from a .env file
// first. Defaults are declared on the partial configs with `default` struct
// tags and registered with Viper by reflection, so every key can be
// overridden from the environment.
//
// # Configuration Structure
//
//   - Server: bind host, candidate ports, API key, timeouts and pool sizes
//   - Log: logging level and format
//   - Outbound: upstream HTTP client and its response cache
//   - Status: status cache TTL and background refresh
//   - Host: procfs and sysfs roots for host readings
//   - Wifi: hotspot controller driver (command, mqtt or none)
//   - Network: connectivity check URLs
//
// Nested keys map to upper-case variables joined by underscores, for example
// SERVER_PORTS=9999,10000 or OUTBOUND_CACHE_ENABLED=true.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Ports)
package config
