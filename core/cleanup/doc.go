// Package cleanup runs ordered resource releases where no single failure may
// skip the steps after it.
//
// A Sequence is built once with Add and executed with Run. Every step runs
// exactly once, in insertion order, inside its own recover boundary. Failures
// are logged and aggregated with errors.Join so callers can inspect them, but
// the sequence itself never stops early.
//
// # Usage
//
//	seq := cleanup.New(logger)
//	seq.Add("listener", srv.Close)
//	seq.Add("status-cache", func() error { cache.Clear(); return nil })
//	err := seq.Run()
package cleanup
