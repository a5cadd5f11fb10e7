package globals

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/stubreg/config"
	"github.com/c360studio/stubreg/diag"
	"github.com/c360studio/stubreg/factory"
	"github.com/c360studio/stubreg/lang"
	"github.com/c360studio/stubreg/reqctx"
	"github.com/c360studio/stubreg/stub"
)

// Runtime is the assembled stack: a registry carrying the well-known
// slots, the diagnostics behind it, and the main request context.
type Runtime struct {
	Registry *stub.Registry
	Config   *config.Config
	Logger   *slog.Logger

	natsConn *nats.Conn
	watcher  *lang.Watcher
}

// Bootstrap wires the full runtime from configuration: registry with
// the configured loop limit, factory-backed construction, runtime
// caller attribution, recorder with optional tracing, metrics and NATS
// events, the well-known slots, and the main request context. Slots
// named by eager patterns are resolved before returning; everything
// else stays pending.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var nc *nats.Conn
	var events *diag.EventPublisher
	if cfg.Diagnostics.NATSURL != "" {
		conn, err := nats.Connect(cfg.Diagnostics.NATSURL)
		if err != nil {
			return nil, fmt.Errorf("connect to NATS: %w", err)
		}
		nc = conn
		events = diag.NewEventPublisher(conn, cfg.Diagnostics.NATSSubject)
	}

	rec := diag.NewRecorder(logger, diag.RecorderOptions{
		Trace:   cfg.Diagnostics.Trace,
		Metrics: cfg.Diagnostics.Metrics,
		Events:  events,
	})

	reg := stub.NewRegistry(stub.Options{
		LoopLimit:   cfg.Registry.LoopLimit,
		Constructor: factory.Default(),
		Caller:      diag.Caller,
		Recorder:    rec,
	})

	rt := &Runtime{Registry: reg, Config: cfg, Logger: logger, natsConn: nc}

	if err := Install(reg, cfg); err != nil {
		rt.Close()
		return nil, err
	}

	mc := reqctx.New(cfg.Language.Code)
	mc.SetMessagesDir(cfg.Language.MessagesDir)
	reqctx.InitMain(mc)

	if len(cfg.Registry.Eager) > 0 {
		if err := EagerInit(reg, cfg.Registry.Eager); err != nil {
			rt.Close()
			return nil, err
		}
	}

	if cfg.Language.Watch && cfg.Language.MessagesDir != "" {
		if err := rt.watchCatalogs(ctx); err != nil {
			rt.Close()
			return nil, err
		}
	}

	return rt, nil
}

// watchCatalogs resolves the content language and starts catalog
// watching on it. Watching needs the real object, so enabling it gives
// up the content slot's laziness.
func (rt *Runtime) watchCatalogs(ctx context.Context) error {
	cell, err := stub.Lookup[lang.Service](rt.Registry, SlotContentLanguage)
	if err != nil {
		return err
	}
	if err := cell.ForceResolve(); err != nil {
		return fmt.Errorf("resolve %s for watching: %w", SlotContentLanguage, err)
	}
	svc, _ := cell.Peek()
	l, ok := svc.(*lang.Language)
	if !ok {
		return fmt.Errorf("slot %s holds %T, cannot watch catalogs", SlotContentLanguage, svc)
	}

	w, err := l.WatchCatalogs(ctx, rt.Config.Language.GetWatchDebounce(), rt.Logger)
	if err != nil {
		return fmt.Errorf("watch catalogs: %w", err)
	}
	rt.watcher = w
	return nil
}

// Close stops catalog watching and drains the NATS connection. Safe to
// call more than once.
func (rt *Runtime) Close() {
	if rt.watcher != nil {
		rt.watcher.Stop()
		rt.watcher = nil
	}
	if rt.natsConn != nil {
		rt.natsConn.Drain()
		rt.natsConn.Close()
		rt.natsConn = nil
	}
}
