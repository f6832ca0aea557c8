// Package intake is the high-level entry point for the procurement intake
// assistant. It wires the catalog, the session manager, the understanding
// client and the dialog engine behind a small API, so hosts (HTTP server,
// chat REPL, MCP) only deal with messages in and replies out.
package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/counciltech/intake/internal/logging"
	"github.com/counciltech/intake/internal/metrics"
	"github.com/counciltech/intake/internal/runtime"
	"github.com/counciltech/intake/pkg/adapters/memory"
	"github.com/counciltech/intake/pkg/catalog"
	"github.com/counciltech/intake/pkg/domain"
	"github.com/counciltech/intake/pkg/ports"
	"github.com/counciltech/intake/pkg/session"
)

// Version is the release version of the assistant.
const Version = "0.3.0"

// Mode selects how the assistant collects answers.
type Mode string

const (
	// ModeTree walks the decision tree node by node.
	ModeTree Mode = "tree"
	// ModeSlots fills the slot catalog from free text.
	ModeSlots Mode = "slots"
)

// ParseMode maps a configuration string onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTree, ModeSlots:
		return Mode(s), nil
	case "":
		return ModeTree, nil
	}
	return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeTree, ModeSlots)
}

// Engine is the assembled assistant.
type Engine struct {
	cat      *catalog.Catalog
	store    ports.SessionStore
	archive  ports.ResultArchive
	locker   ports.DistributedLocker
	llm      ports.Understander
	mode     Mode
	logger   *slog.Logger
	metrics  *metrics.Metrics
	sessions *session.Manager
	runtime  *runtime.Engine
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog replaces the built-in procurement catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(e *Engine) {
		e.cat = cat
	}
}

// WithStore injects a session store. Default is the in-memory store.
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithArchive injects a result archive. Default is the in-memory store.
func WithArchive(archive ports.ResultArchive) Option {
	return func(e *Engine) {
		e.archive = archive
	}
}

// WithLocker enables distributed per-user locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithMode selects the answer-collection mode. Default is ModeTree.
func WithMode(mode Mode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics injects the instrumentation registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New assembles an Engine around the given understanding service. The
// catalog is validated before anything else is wired: a defective catalog
// is a startup error, not a runtime surprise.
func New(llm ports.Understander, opts ...Option) (*Engine, error) {
	if llm == nil {
		return nil, fmt.Errorf("an understanding service is required")
	}

	e := &Engine{
		llm:     llm,
		mode:    ModeTree,
		logger:  logging.NewNop(),
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.cat == nil {
		e.cat = catalog.Procurement()
	}
	if err := e.cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	if e.store == nil || e.archive == nil {
		mem := memory.NewStore()
		if e.store == nil {
			e.store = mem
		}
		if e.archive == nil {
			e.archive = mem
		}
	}

	managerOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, managerOpts...)

	e.runtime = runtime.NewEngine(e.cat, e.sessions, e.llm, e.archive,
		runtime.WithMode(runtime.Mode(e.mode)),
		runtime.WithLogger(e.logger),
		runtime.WithMetrics(e.metrics),
	)
	return e, nil
}

// HandleMessage processes one user message and returns the assistant reply.
func (e *Engine) HandleMessage(ctx context.Context, userID, text string) (string, error) {
	return e.runtime.HandleMessage(ctx, userID, text)
}

// Snapshot returns a copy of a user's session for display.
func (e *Engine) Snapshot(ctx context.Context, userID string) (*domain.Session, error) {
	return e.runtime.Snapshot(ctx, userID)
}

// Result returns a user's archived final result.
func (e *Engine) Result(ctx context.Context, userID string) (*domain.FinalResult, error) {
	return e.runtime.Result(ctx, userID)
}

// Catalog returns the active conversation catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Metrics returns the engine's instrumentation.
func (e *Engine) Metrics() *metrics.Metrics {
	return e.metrics
}

// Sessions returns the session manager, for hosts that need listing.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}
