package wifi

import "time"

// Config holds configuration for the hotspot controller.
type Config struct {
	// Driver selects the controller (command, mqtt, none).
	Driver string `mapstructure:"driver" default:"none"`
	// StartCommand is run by the command driver to start the hotspot.
	StartCommand string `mapstructure:"start_command" default:""`
	// StopCommand is run by the command driver to stop the hotspot.
	StopCommand string `mapstructure:"stop_command" default:""`
	// Shell runs the commands.
	Shell string `mapstructure:"shell" default:"/bin/sh"`
	// CommandTimeout bounds a single command.
	CommandTimeout time.Duration `mapstructure:"command_timeout" default:"10s"`
	// MQTT configures the mqtt driver.
	MQTT MQTTConfig `mapstructure:"mqtt"`
}

// MQTTConfig holds configuration for the mqtt driver.
type MQTTConfig struct {
	// Broker is the broker URL.
	Broker string `mapstructure:"broker" default:"tcp://localhost:1883"`
	// ClientID identifies this server to the broker.
	ClientID string `mapstructure:"client_id" default:"hotspot-control"`
	// Username is the optional broker user.
	Username string `mapstructure:"username" default:""`
	// Password is the optional broker password.
	Password string `mapstructure:"password" default:""`
	// Topic receives the start/stop commands.
	Topic string `mapstructure:"topic" default:"hotspot/wifi/command"`
	// QoS is the publish quality of service.
	QoS int `mapstructure:"qos" default:"1"`
	// Timeout bounds connecting and publishing.
	Timeout time.Duration `mapstructure:"timeout" default:"5s"`
}

const (
	DriverCommand = "command"
	DriverMQTT    = "mqtt"
	DriverNone    = "none"
)
