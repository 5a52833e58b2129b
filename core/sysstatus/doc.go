// Package sysstatus reads host metrics for the status endpoints.
//
// # Sources
//
//   - CPU usage: deltas between two /proc/stat samples. The first sample
//     after construction or Reset reports 0.
//   - CPU temperature: the first thermal zone with a plausible reading.
//     Values above 1000 are milli-degrees; readings outside 20..100 °C are
//     ignored.
//   - Battery: the first power supply of type "Battery".
//   - Wi-Fi: any wireless interface (wlan*, ap* by default) that is up.
//
// Readings that cannot be obtained are reported as statuscache.Unknown.
package sysstatus
