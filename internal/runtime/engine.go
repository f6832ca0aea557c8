// Package runtime implements the dialog engine: per-turn orchestration of
// greeting/farewell handling, slot extraction, decision-tree traversal and
// final analysis. One engine serves all users; per-user state lives in the
// session store and every turn runs under the session manager's per-user
// lock.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/counciltech/intake/internal/logging"
	"github.com/counciltech/intake/internal/metrics"
	"github.com/counciltech/intake/pkg/catalog"
	"github.com/counciltech/intake/pkg/domain"
	"github.com/counciltech/intake/pkg/ports"
	"github.com/counciltech/intake/pkg/session"
)

// Mode selects how the engine collects answers.
type Mode string

const (
	// ModeTree walks the decision tree node by node.
	ModeTree Mode = "tree"
	// ModeSlots fills the slot catalog from free text.
	ModeSlots Mode = "slots"
)

// Engine is the dialog engine. Safe for concurrent use across users; turns
// for the same user are serialized by the session manager.
type Engine struct {
	cat      *catalog.Catalog
	sessions *session.Manager
	llm      ports.Understander
	archive  ports.ResultArchive
	mode     Mode
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures the Engine.
type Option func(*Engine)

// WithMode selects the answer-collection mode. Default is ModeTree.
func WithMode(mode Mode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics configures the instrumentation. Default is a private registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates a dialog engine.
func NewEngine(cat *catalog.Catalog, sessions *session.Manager, llm ports.Understander, archive ports.ResultArchive, opts ...Option) *Engine {
	e := &Engine{
		cat:      cat,
		sessions: sessions,
		llm:      llm,
		archive:  archive,
		mode:     ModeTree,
		logger:   logging.NewNop(),
		metrics:  metrics.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleMessage processes one user message and returns the assistant's
// reply. The whole turn (load, mutate, save) runs under the per-user lock,
// so two in-flight messages from the same user can never interleave.
func (e *Engine) HandleMessage(ctx context.Context, userID, text string) (string, error) {
	e.metrics.Turns.Inc()

	text, err := sanitizeInput(text)
	if err != nil {
		// Rejected input never touches the session, so retrying with a
		// shorter message continues the conversation where it was.
		e.logger.Warn("rejected input", "user_id", userID, "err", err)
		return "Sorry, I couldn't read that message. Please send plain text under a few thousand characters.", nil
	}

	var response string
	err = e.sessions.WithLock(ctx, userID, func(ctx context.Context) error {
		store := e.sessions.Store()

		sess, err := store.Load(ctx, userID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			sess = domain.NewSession(e.cat.Root)
		} else if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		response = e.turn(ctx, userID, sess, strings.TrimSpace(text))

		if err := store.Save(ctx, userID, sess); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return response, nil
}

// turn runs one conversational turn against a locked session. Every failure
// inside a turn degrades to a user-visible response; only store errors
// propagate.
func (e *Engine) turn(ctx context.Context, userID string, sess *domain.Session, text string) string {
	sess.Append(domain.SpeakerUser, text)

	response := e.dispatch(ctx, userID, sess, text)

	sess.Append(domain.SpeakerAssistant, response)
	return response
}

func (e *Engine) dispatch(ctx context.Context, userID string, sess *domain.Session, text string) string {
	if strings.EqualFold(text, catalog.TriggerStartOver) {
		if reply, ok := e.recallResult(ctx, userID); ok {
			return reply
		}
	}

	// Greetings and farewells take precedence over everything: a message
	// equal to one of these phrases is never also treated as an answer.
	if e.cat.IsGreeting(text) {
		return "Hello! I can help you work out the right procurement process.\n\n" + e.currentPrompt(sess)
	}
	if e.cat.IsFarewell(text) {
		sess.Reset(e.cat.Root)
		return "Goodbye! Your session has been reset. Send a message any time to start again."
	}

	if e.mode == ModeSlots {
		return e.slotsTurn(ctx, userID, sess, text)
	}
	return e.treeTurn(ctx, userID, sess, text)
}

// recallResult serves the archived result for the start-over trigger phrase.
// Returns false when there is nothing archived, in which case the trigger is
// handled like any other utterance.
func (e *Engine) recallResult(ctx context.Context, userID string) (string, bool) {
	result, err := e.archive.LoadResult(ctx, userID)
	if errors.Is(err, domain.ErrResultNotFound) {
		return "", false
	}
	if err != nil {
		e.logger.Error("failed to load archived result", "user_id", userID, "err", err)
		return "", false
	}

	var b strings.Builder
	b.WriteString("Here is your previous result.\n\nYou had selected:\n")
	for _, key := range e.answerKeys() {
		if value, ok := result.Answers[key]; ok {
			fmt.Fprintf(&b, "- %s: %s\n", key, value)
		}
	}
	b.WriteString("\n")
	b.WriteString(result.Analysis)
	return b.String(), true
}

// currentPrompt restates where the conversation stands without mutating
// anything.
func (e *Engine) currentPrompt(sess *domain.Session) string {
	if e.mode == ModeSlots {
		if slot := e.pendingSlot(sess); slot != nil {
			return slot.Prompt
		}
		return "All questions are answered. Say anything to finish, or \"" + catalog.TriggerStartOver + "\" to see your previous result."
	}

	node := e.cat.Node(sess.CurrentNode)
	if node == nil {
		return "Let's get started. " + e.renderNode(e.cat.Node(e.cat.Root))
	}
	return e.renderNode(node)
}

// renderNode formats a node's question and option list verbatim.
func (e *Engine) renderNode(node *domain.DecisionNode) string {
	var b strings.Builder
	b.WriteString(node.Question)
	for _, opt := range node.Options {
		b.WriteString("\n- ")
		b.WriteString(opt.Label)
	}
	return b.String()
}

// answerKeys returns the stable display order for answer maps: catalog node
// order in tree mode, slot declaration order in slot mode.
func (e *Engine) answerKeys() []string {
	if e.mode == ModeSlots {
		keys := make([]string, len(e.cat.Slots))
		for i := range e.cat.Slots {
			keys[i] = e.cat.Slots[i].Name
		}
		return keys
	}
	keys := make([]string, len(e.cat.Nodes))
	for i := range e.cat.Nodes {
		keys[i] = e.cat.Nodes[i].Name
	}
	return keys
}

// Snapshot returns a copy of the user's session for display purposes.
func (e *Engine) Snapshot(ctx context.Context, userID string) (*domain.Session, error) {
	sess, err := e.sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// Result returns the user's archived final result.
func (e *Engine) Result(ctx context.Context, userID string) (*domain.FinalResult, error) {
	return e.archive.LoadResult(ctx, userID)
}
