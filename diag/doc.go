// Package diag provides the diagnostic collaborators for slot resolution:
// caller attribution from the runtime stack, a recorder that feeds
// structured logs, Prometheus metrics and NATS events, and the event wire
// format. The registry core stays free of I/O; everything observable about
// a resolution goes through this package.
package diag
