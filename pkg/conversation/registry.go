package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hdt-be/internal/pkg/logger"
	"hdt-be/pkg/apperr"
	"hdt-be/pkg/llm"
	"hdt-be/pkg/prompt"
)

// ErrAlreadyOpen is returned by Open when the session already has a context.
// Callers treat it as success.
var ErrAlreadyOpen = errors.New("conversation already open")

// Exchange is one completed turn kept in the live history.
type Exchange struct {
	Command     string
	RawResponse string
	Kind        prompt.TaskKind
	At          time.Time
}

// Context is the conversational state of one session. It is only reachable
// inside Registry.WithContext, which holds the session lock.
type Context struct {
	SessionID         string
	Role              prompt.Role
	SystemInstruction string

	history []Exchange
	backend llm.Backend
	handle  llm.Conversation
}

// History returns a copy of the exchanges so far.
func (c *Context) History() []Exchange {
	out := make([]Exchange, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Context) Len() int {
	return len(c.history)
}

func (c *Context) Append(ex Exchange) {
	if ex.At.IsZero() {
		ex.At = time.Now()
	}
	c.history = append(c.history, ex)
}

func (c *Context) HasBackend() bool {
	return c.backend != nil
}

// Send performs one model turn. The model handle is started on first use.
func (c *Context) Send(ctx context.Context, text string) (string, error) {
	if c.backend == nil {
		return "", apperr.New(apperr.ErrBackendUnavailable, "AI service not configured. Please set an LLM provider and its API key.")
	}
	if c.handle == nil {
		handle, err := c.backend.StartConversation(ctx, c.SystemInstruction)
		if err != nil {
			return "", fmt.Errorf("start conversation: %w", err)
		}
		c.handle = handle
	}
	return c.handle.Send(ctx, text)
}

func (c *Context) release() error {
	if c.handle == nil {
		return nil
	}
	err := c.handle.Close()
	c.handle = nil
	return err
}

type entry struct {
	mu     sync.Mutex
	ctx    *Context
	closed bool
}

// Registry owns one Context per open session and serializes access to it.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	backend llm.Backend
	logger  logger.ILogger
}

// NewRegistry builds a registry. backend may be nil when no text-generation
// capability is configured.
func NewRegistry(backend llm.Backend, logger logger.ILogger) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		backend: backend,
		logger:  logger,
	}
}

func (r *Registry) Open(sessionID string, role prompt.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[sessionID]; ok {
		return ErrAlreadyOpen
	}

	r.entries[sessionID] = &entry{ctx: &Context{
		SessionID:         sessionID,
		Role:              role,
		SystemInstruction: role.SystemInstruction(),
		backend:           r.backend,
	}}

	r.logger.Info("CONVERSATION", "Context opened", map[string]interface{}{
		"session_id":  sessionID,
		"role":        string(role),
		"has_backend": r.backend != nil,
	})
	return nil
}

// WithContext runs fn while holding the session lock. Calls for the same
// session never overlap; calls for different sessions run in parallel.
func (r *Registry) WithContext(sessionID string, fn func(*Context) error) error {
	r.mu.RLock()
	e, ok := r.entries[sessionID]
	r.mu.RUnlock()
	if !ok {
		return apperr.Newf(apperr.ErrSessionNotFound, "no conversation for session %s", sessionID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Close may have won the race between the lookup and the lock.
	if e.closed {
		return apperr.Newf(apperr.ErrSessionNotFound, "no conversation for session %s", sessionID)
	}
	return fn(e.ctx)
}

// Close discards the session context. A call in flight finishes first.
// Closing an unknown id is a no-op.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	e, ok := r.entries[sessionID]
	delete(r.entries, sessionID)
	r.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	e.closed = true
	turns := e.ctx.Len()
	err := e.ctx.release()
	e.mu.Unlock()

	details := map[string]interface{}{"session_id": sessionID, "turns": turns}
	if err != nil {
		details["error"] = err.Error()
		r.logger.Warn("CONVERSATION", "Model handle close failed", details)
		return
	}
	r.logger.Info("CONVERSATION", "Context closed", details)
}

func (r *Registry) Has(sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[sessionID]
	return ok
}

// CloseAll tears down every context, used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		r.Close(id)
	}
}
