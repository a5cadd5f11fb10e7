package diag

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/c360studio/stubreg/stub"
)

func newTestRecorder(opts RecorderOptions) (*Recorder, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewRecorder(logger, opts), &buf
}

func TestRecorderTraceGating(t *testing.T) {
	rec, buf := newTestRecorder(RecorderOptions{Trace: false})

	rec.Trace("unstubbing slot", "slot", "lang.content")
	if buf.Len() != 0 {
		t.Errorf("trace disabled should emit nothing, got %q", buf.String())
	}

	rec, buf = newTestRecorder(RecorderOptions{Trace: true})
	rec.Trace("unstubbing slot", "slot", "lang.content")
	out := buf.String()
	if !strings.Contains(out, "unstubbing slot") || !strings.Contains(out, "lang.content") {
		t.Errorf("trace line missing fields: %q", out)
	}
}

func TestRecorderSuccessLine(t *testing.T) {
	rec, buf := newTestRecorder(RecorderOptions{Trace: true})

	end := rec.UnstubBegin(stub.Unstub{Slot: "lang.content", Op: "Message", Depth: 1})
	end(nil)

	out := buf.String()
	if !strings.Contains(out, "slot resolved") {
		t.Errorf("expected success line, got %q", out)
	}

	// Without tracing, a clean attempt stays quiet.
	rec, buf = newTestRecorder(RecorderOptions{})
	end = rec.UnstubBegin(stub.Unstub{Slot: "lang.content", Op: "Message", Depth: 1})
	end(nil)
	if buf.Len() != 0 {
		t.Errorf("clean attempt without tracing should be silent, got %q", buf.String())
	}
}

func TestRecorderLoopLine(t *testing.T) {
	rec, buf := newTestRecorder(RecorderOptions{})

	loopErr := &stub.UnstubLoopError{Slot: "lang.content", Op: "Message", Caller: "app.render (handler.go:42)"}
	end := rec.UnstubBegin(stub.Unstub{Slot: "lang.content", Op: "Message", Caller: loopErr.Caller, Depth: 3})
	end(loopErr)

	out := buf.String()
	if !strings.Contains(out, "unstub loop detected") {
		t.Errorf("expected loop line, got %q", out)
	}
	if !strings.Contains(out, "level=ERROR") {
		t.Errorf("loops should log at error level, got %q", out)
	}
}

func TestRecorderFailureLine(t *testing.T) {
	rec, buf := newTestRecorder(RecorderOptions{})

	end := rec.UnstubBegin(stub.Unstub{Slot: "db", Op: "Query", Depth: 1})
	end(errors.New("dial tcp: connection refused"))

	out := buf.String()
	if !strings.Contains(out, "slot construction failed") {
		t.Errorf("expected failure line, got %q", out)
	}
}

func TestOutcomeLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"loop", &stub.UnstubLoopError{Slot: "s", Op: "o", Caller: "c"}, "loop"},
		{"other", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outcomeLabel(tt.err); got != tt.want {
				t.Errorf("outcomeLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecorderMetrics(t *testing.T) {
	rec, _ := newTestRecorder(RecorderOptions{Metrics: true})

	// Exercises registration and the record path; values land in the
	// default Prometheus registry.
	end := rec.UnstubBegin(stub.Unstub{Slot: "lang.content", Op: "Message", Depth: 1})
	end(nil)

	RecordUnstub("lang.content", "ok", 3*time.Millisecond)
}

func TestEventPublisherNilConnection(t *testing.T) {
	p := NewEventPublisher(nil, "")

	if err := p.Publish(Event{Slot: "lang.content"}); err != nil {
		t.Errorf("publish without connection = %v, want nil", err)
	}
	if got := p.Subject(); got != DefaultSubject {
		t.Errorf("Subject = %q, want %q", got, DefaultSubject)
	}

	var nilPub *EventPublisher
	if err := nilPub.Publish(Event{}); err != nil {
		t.Errorf("nil publisher = %v, want nil", err)
	}
	if got := nilPub.Subject(); got != "" {
		t.Errorf("nil publisher subject = %q, want empty", got)
	}
}

func TestEventWireFormat(t *testing.T) {
	ev := Event{
		ID:         "id-1",
		Slot:       "lang.content",
		Op:         "Message",
		Caller:     "app.render (handler.go:42)",
		Depth:      1,
		Outcome:    "ok",
		DurationMS: 1.25,
		Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "slot", "op", "caller", "depth", "outcome", "duration_ms", "timestamp"} {
		if _, ok := m[key]; !ok {
			t.Errorf("event JSON missing %q: %s", key, data)
		}
	}
	if _, ok := m["error"]; ok {
		t.Error("empty error should be omitted from event JSON")
	}
}
