package stub

import (
	"errors"
	"sync"
	"testing"
)

func TestIsReal(t *testing.T) {
	r := NewRegistry(Options{})
	cell, _ := Register(r, "svc", constantBuilder("real"))

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, true},
		{"plain string", "hello", true},
		{"plain struct", struct{ X int }{1}, true},
		{"cell handle", cell, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReal(tt.v); got != tt.want {
				t.Errorf("IsReal(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestIsRealAfterResolve(t *testing.T) {
	r := NewRegistry(Options{})
	cell, _ := Register(r, "svc", constantBuilder("real"))

	v, err := cell.Resolve("Get")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// The resolved value is the real object; the handle stays a stand-in.
	if !IsReal(v) {
		t.Error("resolved value should be real")
	}
	if IsReal(cell) {
		t.Error("the cell itself remains a stand-in marker")
	}
}

func TestForceUnstubNonStub(t *testing.T) {
	if err := ForceUnstub("just a string"); err != nil {
		t.Errorf("ForceUnstub on a real value = %v, want nil", err)
	}
	if err := ForceUnstub(nil); err != nil {
		t.Errorf("ForceUnstub(nil) = %v, want nil", err)
	}
}

func TestForceUnstubCell(t *testing.T) {
	r := NewRegistry(Options{})

	builds := 0
	cell, _ := Register(r, "svc", BuilderFunc[string](func(*Resolution) (string, error) {
		builds++
		return "real", nil
	}))

	if err := ForceUnstub(cell); err != nil {
		t.Fatalf("force unstub: %v", err)
	}
	if !cell.Ready() {
		t.Error("cell should be ready after ForceUnstub")
	}
	if err := ForceUnstub(cell); err != nil {
		t.Fatalf("second force unstub: %v", err)
	}
	if builds != 1 {
		t.Errorf("expected a single construction, got %d", builds)
	}
}

func TestForceUnstubPropagatesFailure(t *testing.T) {
	r := NewRegistry(Options{})

	boom := errors.New("no database")
	cell, _ := Register(r, "svc", BuilderFunc[string](func(*Resolution) (string, error) {
		return "", boom
	}))

	err := ForceUnstub(cell)
	if !errors.Is(err, boom) {
		t.Errorf("ForceUnstub = %v, want the construction failure", err)
	}
}

func TestGlobalSingleton(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	r1 := Global()
	r2 := Global()
	if r1 != r2 {
		t.Error("Global should return the same registry")
	}
	if r1.LoopLimit() != DefaultLoopLimit {
		t.Errorf("default global loop limit = %d, want %d", r1.LoopLimit(), DefaultLoopLimit)
	}
}

func TestInitGlobal(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	custom := NewRegistry(Options{LoopLimit: 7})
	InitGlobal(custom)

	if Global() != custom {
		t.Error("Global should return the registry installed by InitGlobal")
	}

	// A second init is a no-op.
	InitGlobal(NewRegistry(Options{}))
	if Global() != custom {
		t.Error("only the first InitGlobal should take effect")
	}
}

func TestInitGlobalConcurrent(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	var wg sync.WaitGroup
	registries := make([]*Registry, 8)
	for i := range registries {
		registries[i] = NewRegistry(Options{})
	}
	for i := range registries {
		wg.Add(1)
		go func(r *Registry) {
			defer wg.Done()
			InitGlobal(r)
		}(registries[i])
	}
	wg.Wait()

	got := Global()
	found := false
	for _, r := range registries {
		if got == r {
			found = true
			break
		}
	}
	if !found {
		t.Error("Global should hold one of the concurrently installed registries")
	}
}

func TestUnstubLoopErrorMessage(t *testing.T) {
	err := &UnstubLoopError{
		Slot:   "lang.content",
		Op:     "Message",
		Caller: "app.render (handler.go:42)",
	}

	want := "unstub loop detected on call of lang.content.Message from app.render (handler.go:42)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsUnstubLoop(t *testing.T) {
	loop := &UnstubLoopError{Slot: "svc", Op: "Get", Caller: "unknown"}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"loop error", loop, true},
		{"wrapped loop error", wrap(wrap(loop)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUnstubLoop(tt.err); got != tt.want {
				t.Errorf("IsUnstubLoop = %v, want %v", got, tt.want)
			}
		})
	}
}

func wrap(err error) error {
	return &wrappedErr{err}
}

type wrappedErr struct{ inner error }

func (w *wrappedErr) Error() string { return "wrapped: " + w.inner.Error() }
func (w *wrappedErr) Unwrap() error { return w.inner }
