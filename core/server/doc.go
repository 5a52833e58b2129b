// Package server holds the control server configuration.
//
// The listener and the manager are built from a Config; this package only
// defines its fields, their defaults and the checks run before a start.
//
// # Configuration
//
// The Config struct defines the candidate ports, the API key and whether it is
// required, socket deadlines, worker pool sizing, the grace periods used on
// stop and the optional accept rate limit.
//
// # Candidate Ports
//
// CandidatePorts returns the configured ports in their configured order with
// duplicates removed, so one start attempt never tries a port twice.
package server
