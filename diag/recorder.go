package diag

import (
	"log/slog"
	"time"

	"github.com/c360studio/stubreg/stub"
)

// RecorderOptions selects which diagnostic sinks a Recorder feeds.
type RecorderOptions struct {
	// Trace emits a debug log line for every resolution attempt.
	Trace bool

	// Metrics records Prometheus counters and histograms.
	Metrics bool

	// Events receives one event per attempt; nil disables publishing.
	Events *EventPublisher
}

// Recorder implements the registry's diagnostics hook: structured logging,
// Prometheus metrics and NATS events, each individually switchable.
type Recorder struct {
	logger  *slog.Logger
	trace   bool
	metrics bool
	events  *EventPublisher
}

var _ stub.Recorder = (*Recorder)(nil)

// NewRecorder creates a recorder writing to logger.
func NewRecorder(logger *slog.Logger, opts RecorderOptions) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Metrics {
		RegisterMetrics()
	}
	return &Recorder{
		logger:  logger,
		trace:   opts.Trace,
		metrics: opts.Metrics,
		events:  opts.Events,
	}
}

// UnstubBegin observes one resolution attempt. The returned func runs when
// the attempt ends, with its final error.
func (r *Recorder) UnstubBegin(u stub.Unstub) func(error) {
	start := time.Now()
	return func(err error) {
		dur := time.Since(start)
		outcome := outcomeLabel(err)

		switch {
		case err == nil:
			if r.trace {
				r.logger.Debug("slot resolved",
					"slot", u.Slot,
					"op", u.Op,
					"depth", u.Depth,
					"duration_ms", float64(dur.Microseconds())/1000,
				)
			}
		case stub.IsUnstubLoop(err):
			r.logger.Error("unstub loop detected",
				"slot", u.Slot,
				"op", u.Op,
				"caller", u.Caller,
				"depth", u.Depth,
				"error", err,
			)
		default:
			r.logger.Error("slot construction failed",
				"slot", u.Slot,
				"op", u.Op,
				"caller", u.Caller,
				"error", err,
			)
		}

		if r.metrics {
			RecordUnstub(u.Slot, outcome, dur)
		}

		if r.events != nil {
			ev := Event{
				Slot:       u.Slot,
				Op:         u.Op,
				Caller:     u.Caller,
				Depth:      u.Depth,
				External:   u.External,
				Outcome:    outcome,
				DurationMS: float64(dur.Microseconds()) / 1000,
			}
			if err != nil {
				ev.Error = err.Error()
			}
			if pubErr := r.events.Publish(ev); pubErr != nil {
				r.logger.Warn("publish resolution event failed", "error", pubErr)
			}
		}
	}
}

// Trace forwards protocol trace lines to the debug log when tracing is
// enabled.
func (r *Recorder) Trace(msg string, attrs ...any) {
	if !r.trace {
		return
	}
	r.logger.Debug(msg, attrs...)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case stub.IsUnstubLoop(err):
		return "loop"
	default:
		return "error"
	}
}
