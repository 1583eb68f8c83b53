package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hdt-be/internal/pkg/logger"
	"hdt-be/pkg/apperr"
	"hdt-be/pkg/conversation"
	"hdt-be/pkg/prompt"
	"hdt-be/pkg/response"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

const (
	msgBackendUnavailable = "AI service not configured. Please set an LLM provider and its API key."
	msgNotConfigured      = "Session not configured. Please start a work session first."
)

type Config struct {
	// CallTimeout bounds one model call. Zero means 120s.
	CallTimeout time.Duration
	// MaxConcurrentCalls caps model calls across all sessions. Zero means 4.
	MaxConcurrentCalls int64
}

type Option func(*Orchestrator)

func WithSessionDirectory(d SessionDirectory) Option {
	return func(o *Orchestrator) { o.directory = d }
}

func WithRecorder(r TaskRecorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

// Submission is a caller's task request.
type Submission struct {
	SessionID string
	ProfileID string
	Kind      string
	Command   string
	Context   prompt.TaskContext
	Priority  int
}

// Orchestrator drives tasks from pending to a terminal state against the
// session's conversation context.
type Orchestrator struct {
	registry   *conversation.Registry
	compositor *prompt.Compositor
	directory  SessionDirectory
	recorder   TaskRecorder
	notifier   Notifier
	sem        *semaphore.Weighted
	timeout    time.Duration
	tracer     trace.Tracer
	logger     logger.ILogger
	now        func() time.Time
	inflight   sync.WaitGroup
}

func New(registry *conversation.Registry, compositor *prompt.Compositor, cfg Config, logger logger.ILogger, opts ...Option) *Orchestrator {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 120 * time.Second
	}
	if cfg.MaxConcurrentCalls <= 0 {
		cfg.MaxConcurrentCalls = 4
	}

	o := &Orchestrator{
		registry:   registry,
		compositor: compositor,
		sem:        semaphore.NewWeighted(cfg.MaxConcurrentCalls),
		timeout:    cfg.CallTimeout,
		tracer:     otel.Tracer("hdt-be/orchestrator"),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit runs the task to a terminal state and returns it. A failed task is
// returned with a nil error; only validation and unknown sessions are
// rejected. If ctx ends first, the pending snapshot is returned with
// ctx.Err() and the task still finishes in the background.
func (o *Orchestrator) Submit(ctx context.Context, sub Submission) (Task, error) {
	if strings.TrimSpace(sub.SessionID) == "" || strings.TrimSpace(sub.ProfileID) == "" {
		return Task{}, apperr.New(apperr.ErrValidation, "session_id and profile_id are required")
	}
	if strings.TrimSpace(sub.Command) == "" {
		return Task{}, apperr.New(apperr.ErrValidation, "command is required")
	}

	if o.directory != nil {
		exists, err := o.directory.SessionExists(ctx, sub.SessionID)
		if err != nil {
			return Task{}, fmt.Errorf("lookup session: %w", err)
		}
		if !exists {
			return Task{}, apperr.Newf(apperr.ErrSessionNotFound, "session %s not found", sub.SessionID)
		}
	}

	priority := sub.Priority
	if priority == 0 {
		priority = DefaultPriority
	}

	task := Task{
		ID:        uuid.NewString(),
		SessionID: sub.SessionID,
		ProfileID: sub.ProfileID,
		Kind:      prompt.ParseTaskKind(sub.Kind),
		Command:   sub.Command,
		Context:   sub.Context,
		Priority:  priority,
		Status:    StatusPending,
		CreatedAt: o.now(),
	}

	if o.recorder != nil {
		if err := o.recorder.RecordTask(ctx, task); err != nil {
			return Task{}, fmt.Errorf("record task: %w", err)
		}
	}
	o.notify(ctx, task)

	done := make(chan Task, 1)
	runCtx := context.WithoutCancel(ctx)
	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		done <- o.run(runCtx, task)
	}()

	select {
	case finished := <-done:
		return finished, nil
	case <-ctx.Done():
		o.logger.Warn("ORCHESTRATOR", "Caller left before task finished", map[string]interface{}{
			"task_id":    task.ID,
			"session_id": task.SessionID,
		})
		return task, ctx.Err()
	}
}

func (o *Orchestrator) run(ctx context.Context, task Task) Task {
	details := map[string]interface{}{
		"task_id":    task.ID,
		"session_id": task.SessionID,
		"kind":       string(task.Kind),
	}

	if err := task.start(o.now()); err != nil {
		o.logger.Error("ORCHESTRATOR", "Task transition rejected", map[string]interface{}{"task_id": task.ID, "error": err.Error()})
		return task
	}
	o.transitioned(ctx, task, details)

	var raw string
	err := o.registry.WithContext(task.SessionID, func(c *conversation.Context) error {
		if !c.HasBackend() {
			return apperr.New(apperr.ErrBackendUnavailable, msgBackendUnavailable)
		}

		text := o.compositor.Compose(c.Role, task.Kind, task.Command, task.Context)
		reply, err := o.call(ctx, c, task, text)
		if err != nil {
			return err
		}

		c.Append(conversation.Exchange{Command: task.Command, RawResponse: reply, Kind: task.Kind})
		raw = reply
		return nil
	})

	if err != nil {
		if errors.Is(err, apperr.ErrSessionNotFound) {
			err = apperr.New(apperr.ErrSessionNotConfigured, msgNotConfigured)
		}
		if ferr := task.fail(o.now(), err.Error()); ferr != nil {
			o.logger.Error("ORCHESTRATOR", "Task transition rejected", map[string]interface{}{"task_id": task.ID, "error": ferr.Error()})
			return task
		}
		details["error"] = err.Error()
		o.transitioned(ctx, task, details)
		return task
	}

	if strings.TrimSpace(raw) == "" {
		o.logger.Warn("ORCHESTRATOR", "Model returned empty output", details)
	}

	parsed := response.Parse(raw, task.Kind)
	if cerr := task.complete(o.now(), parsed, response.ApproxTokens(raw)); cerr != nil {
		o.logger.Error("ORCHESTRATOR", "Task transition rejected", map[string]interface{}{"task_id": task.ID, "error": cerr.Error()})
		return task
	}
	details["tokens_used"] = task.TokensUsed
	details["code_blocks"] = len(parsed.CodeBlocks)
	o.transitioned(ctx, task, details)
	return task
}

// call performs the model turn under the global concurrency cap and the
// call deadline. The caller holds the session lock.
func (o *Orchestrator) call(ctx context.Context, c *conversation.Context, task Task, text string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	callCtx, span := o.tracer.Start(callCtx, "orchestrator.model_call", trace.WithAttributes(
		attribute.String("session.id", task.SessionID),
		attribute.String("task.id", task.ID),
		attribute.String("task.kind", string(task.Kind)),
	))
	defer span.End()

	if err := o.sem.Acquire(callCtx, 1); err != nil {
		span.SetStatus(codes.Error, "waiting for a model slot")
		return "", o.callError(err)
	}
	defer o.sem.Release(1)

	reply, err := c.Send(callCtx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, apperr.ErrBackendUnavailable) {
			return "", err
		}
		if callCtx.Err() != nil {
			return "", o.callError(callCtx.Err())
		}
		return "", o.callError(err)
	}

	span.SetAttributes(attribute.Int("reply.tokens", response.ApproxTokens(reply)))
	return reply, nil
}

func (o *Orchestrator) callError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.ErrModelCallFailed, fmt.Sprintf("model call exceeded %s", o.timeout), apperr.ErrModelCallTimeout)
	}
	return apperr.Wrap(apperr.ErrModelCallFailed, "model call failed", err)
}

func (o *Orchestrator) transitioned(ctx context.Context, task Task, details map[string]interface{}) {
	details["status"] = string(task.Status)
	switch task.Status {
	case StatusFailed:
		o.logger.Warn("ORCHESTRATOR", "Task failed", details)
	default:
		o.logger.Info("ORCHESTRATOR", "Task "+string(task.Status), details)
	}

	if o.recorder != nil {
		if err := o.recorder.RecordTask(ctx, task); err != nil {
			o.logger.Error("ORCHESTRATOR", "Failed to record task transition", map[string]interface{}{
				"task_id": task.ID,
				"status":  string(task.Status),
				"error":   err.Error(),
			})
		}
	}
	o.notify(ctx, task)
}

func (o *Orchestrator) notify(ctx context.Context, task Task) {
	if o.notifier != nil {
		o.notifier.TaskChanged(ctx, task)
	}
}

// Wait blocks until every task started so far reached a terminal state or
// ctx ends.
func (o *Orchestrator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
