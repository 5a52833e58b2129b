// Package wifi controls the hotspot radio on behalf of the control server.
//
// The server only knows the Controller interface. Three drivers implement it:
//
//   - command: runs configured shell commands (for example "su -c 'cmd wifi
//     start-softap ...'") with a timeout
//   - mqtt: publishes start/stop commands to a broker topic for an agent that
//     owns the radio
//   - none: reports that hotspot control is not configured
//
// New selects the driver from Config.Driver.
package wifi
