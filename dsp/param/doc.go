// Package param provides control-signal plumbing between a host and a
// real-time processor: ramped smoothing of step changes and wait-free
// float parameters shared across goroutines.
package param
