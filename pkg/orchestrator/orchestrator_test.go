package orchestrator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hdt-be/internal/pkg/logger"
	"hdt-be/pkg/apperr"
	"hdt-be/pkg/conversation"
	"hdt-be/pkg/llm"
	"hdt-be/pkg/prompt"
	"hdt-be/pkg/response"
	"hdt-be/pkg/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

type replyFunc func(ctx context.Context, text string) (string, error)

type scriptedBackend struct {
	reply replyFunc
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) StartConversation(ctx context.Context, systemInstruction string) (llm.Conversation, error) {
	return &scriptedConversation{reply: b.reply}, nil
}

type scriptedConversation struct {
	reply replyFunc
}

func (c *scriptedConversation) Send(ctx context.Context, text string) (string, error) {
	return c.reply(ctx, text)
}

func (c *scriptedConversation) Close() error { return nil }

type memoryRecorder struct {
	mu      sync.Mutex
	history map[string][]Status
	last    map[string]Task
}

func newMemoryRecorder() *memoryRecorder {
	return &memoryRecorder{history: map[string][]Status{}, last: map[string]Task{}}
}

func (r *memoryRecorder) RecordTask(ctx context.Context, task Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[task.ID] = append(r.history[task.ID], task.Status)
	r.last[task.ID] = task
	return nil
}

func (r *memoryRecorder) statuses(id string) []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.history[id]...)
}

type staticDirectory map[string]bool

func (d staticDirectory) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	return d[sessionID], nil
}

func setup(t *testing.T, backend llm.Backend, cfg Config, opts ...Option) (*Orchestrator, *conversation.Registry) {
	t.Helper()
	nop := logger.NewNopLogger()
	registry := conversation.NewRegistry(backend, nop)
	t.Cleanup(registry.CloseAll)
	return New(registry, prompt.NewCompositor(1000), cfg, nop, opts...), registry
}

func historyLen(t *testing.T, r *conversation.Registry, sessionID string) int {
	t.Helper()
	n := -1
	require.NoError(t, r.WithContext(sessionID, func(c *conversation.Context) error {
		n = c.Len()
		return nil
	}))
	return n
}

func echo(ctx context.Context, text string) (string, error) {
	return "Here you go.\n```go\nfunc Reverse(s string) string { return s }\n```\nDone.", nil
}

func TestSubmitCompletesAndParses(t *testing.T) {
	o, registry := setup(t, &scriptedBackend{reply: echo}, Config{})
	require.NoError(t, registry.Open("s1", prompt.RoleSoftwareEngineer))

	task, err := o.Submit(context.Background(), Submission{
		SessionID: "s1",
		ProfileID: "p1",
		Kind:      "code_generation",
		Command:   "write a function that reverses a string",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, task.Status)
	assert.Equal(t, prompt.KindCodeGeneration, task.Kind)
	assert.Equal(t, DefaultPriority, task.Priority)
	require.NotNil(t, task.Result)
	assert.Equal(t, []response.CodeBlock{{Language: "go", Code: "func Reverse(s string) string { return s }"}}, task.Result.CodeBlocks)
	assert.Equal(t, response.ApproxTokens(task.Result.RawText), task.TokensUsed)
	require.NotNil(t, task.StartedAt)
	require.NotNil(t, task.CompletedAt)
	assert.False(t, task.CompletedAt.Before(*task.StartedAt))
	assert.Empty(t, task.ErrorMessage)
	assert.Equal(t, 1, historyLen(t, registry, "s1"))
}

func TestUnknownKindRunsAsGeneral(t *testing.T) {
	var seen string
	backend := &scriptedBackend{reply: func(ctx context.Context, text string) (string, error) {
		seen = text
		return "ok", nil
	}}
	o, registry := setup(t, backend, Config{})
	require.NoError(t, registry.Open("s1", prompt.RoleOfficeWorker))

	task, err := o.Submit(context.Background(), Submission{SessionID: "s1", ProfileID: "p1", Kind: "poetry", Command: "hello"})
	require.NoError(t, err)
	assert.Equal(t, prompt.KindGeneral, task.Kind)
	assert.Equal(t, prompt.NewCompositor(1000).Compose(prompt.RoleOfficeWorker, prompt.KindGeneral, "hello", nil), seen)
}

func TestHistoryLengthMatchesCompletedTasksUnderConcurrency(t *testing.T) {
	var inFlight, overlap atomic.Int32
	backend := &scriptedBackend{reply: func(ctx context.Context, text string) (string, error) {
		if inFlight.Add(1) > 1 {
			overlap.Add(1)
		}
		time.Sleep(time.Millisecond)
		inFlight.Add(-1)
		return "done", nil
	}}
	o, registry := setup(t, backend, Config{MaxConcurrentCalls: 8})
	require.NoError(t, registry.Open("s1", prompt.RoleSoftwareEngineer))

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := o.Submit(context.Background(), Submission{SessionID: "s1", ProfileID: "p1", Command: "ping"})
			assert.NoError(t, err)
			assert.Equal(t, StatusCompleted, task.Status)
		}()
	}
	wg.Wait()

	assert.Equal(t, n, historyLen(t, registry, "s1"))
	assert.Equal(t, int32(0), overlap.Load(), "model calls of one session overlapped")
}

func TestFailedCallDoesNotTouchHistory(t *testing.T) {
	fail := atomic.Bool{}
	backend := &scriptedBackend{reply: func(ctx context.Context, text string) (string, error) {
		if fail.Load() {
			return "", errors.New("upstream 500: overloaded")
		}
		return "fine", nil
	}}
	o, registry := setup(t, backend, Config{})
	require.NoError(t, registry.Open("s1", prompt.RoleSoftwareEngineer))

	_, err := o.Submit(context.Background(), Submission{SessionID: "s1", ProfileID: "p1", Command: "first"})
	require.NoError(t, err)
	require.Equal(t, 1, historyLen(t, registry, "s1"))

	fail.Store(true)
	task, err := o.Submit(context.Background(), Submission{SessionID: "s1", ProfileID: "p1", Command: "second"})
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, task.Status)
	assert.Contains(t, task.ErrorMessage, "upstream 500: overloaded")
	assert.Nil(t, task.Result)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, 1, historyLen(t, registry, "s1"))
}

func TestBackendUnavailableScenario(t *testing.T) {
	nop := logger.NewNopLogger()
	aggregator := telemetry.NewAggregator(telemetry.NewBroadcaster(4, nop), nil, time.Hour, nop)
	aggregator.Start("S")
	load := 0.5
	_, err := aggregator.Ingest(context.Background(), telemetry.Sample{
		SessionID:     "S",
		Kind:          telemetry.KindPhysiological,
		Physiological: &telemetry.Physiological{CognitiveLoad: &load},
	})
	require.NoError(t, err)
	before, _ := aggregator.Summary("S")

	o, registry := setup(t, nil, Config{})
	require.NoError(t, registry.Open("S", prompt.RoleSoftwareEngineer))

	task, err := o.Submit(context.Background(), Submission{
		SessionID: "S",
		ProfileID: "p1",
		Kind:      string(prompt.KindCodeGeneration),
		Command:   "write a function that reverses a string",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, task.Status)
	assert.Contains(t, task.ErrorMessage, "not configured")
	assert.Equal(t, 0, historyLen(t, registry, "S"))

	after, _ := aggregator.Summary("S")
	assert.Equal(t, before, after)
}

func TestMissingContextFailsAsNotConfigured(t *testing.T) {
	o, _ := setup(t, &scriptedBackend{reply: echo}, Config{}, WithSessionDirectory(staticDirectory{"s1": true}))

	task, err := o.Submit(context.Background(), Submission{SessionID: "s1", ProfileID: "p1", Command: "hi"})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, task.Status)
	assert.Equal(t, msgNotConfigured, task.ErrorMessage)
}

func TestTimeoutIsModelCallFailure(t *testing.T) {
	backend := &scriptedBackend{reply: func(ctx context.Context, text string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	o, registry := setup(t, backend, Config{CallTimeout: 20 * time.Millisecond})
	require.NoError(t, registry.Open("s1", prompt.RoleSoftwareEngineer))

	task, err := o.Submit(context.Background(), Submission{SessionID: "s1", ProfileID: "p1", Command: "slow"})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, task.Status)
	assert.Contains(t, task.ErrorMessage, "exceeded")
	assert.Contains(t, task.ErrorMessage, apperr.ErrModelCallTimeout.Error())
	assert.Equal(t, 0, historyLen(t, registry, "s1"))
}

func TestCallErrorClassification(t *testing.T) {
	o, _ := setup(t, nil, Config{CallTimeout: time.Second})

	timeout := o.callError(context.DeadlineExceeded)
	assert.True(t, errors.Is(timeout, apperr.ErrModelCallFailed))
	assert.True(t, errors.Is(timeout, apperr.ErrModelCallTimeout))

	other := o.callError(errors.New("bad gateway"))
	assert.True(t, errors.Is(other, apperr.ErrModelCallFailed))
	assert.False(t, errors.Is(other, apperr.ErrModelCallTimeout))
}

func TestSubmitRejectsSynchronously(t *testing.T) {
	recorder := newMemoryRecorder()
	o, _ := setup(t, nil, Config{}, WithRecorder(recorder), WithSessionDirectory(staticDirectory{"known": true}))

	tests := []struct {
		name string
		sub  Submission
		kind error
	}{
		{"missing session", Submission{ProfileID: "p", Command: "x"}, apperr.ErrValidation},
		{"missing profile", Submission{SessionID: "known", Command: "x"}, apperr.ErrValidation},
		{"blank command", Submission{SessionID: "known", ProfileID: "p", Command: "  "}, apperr.ErrValidation},
		{"unknown session", Submission{SessionID: "ghost", ProfileID: "p", Command: "x"}, apperr.ErrSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Submit(context.Background(), tt.sub)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
	assert.Empty(t, recorder.history)
}

func TestTransitionsAreMonotonic(t *testing.T) {
	recorder := newMemoryRecorder()
	o, registry := setup(t, &scriptedBackend{reply: echo}, Config{}, WithRecorder(recorder))
	require.NoError(t, registry.Open("s1", prompt.RoleSoftwareEngineer))

	ok, err := o.Submit(context.Background(), Submission{SessionID: "s1", ProfileID: "p", Command: "a"})
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusPending, StatusProcessing, StatusCompleted}, recorder.statuses(ok.ID))

	failed, err := o.Submit(context.Background(), Submission{SessionID: "nobody", ProfileID: "p", Command: "a"})
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusPending, StatusProcessing, StatusFailed}, recorder.statuses(failed.ID))
}

func TestTaskStateMachine(t *testing.T) {
	now := time.Now()
	task := Task{ID: "t", Status: StatusPending}

	assert.True(t, errors.Is(task.complete(now, response.ParsedResult{}, 0), apperr.ErrIllegalTransition))
	assert.True(t, errors.Is(task.fail(now, "x"), apperr.ErrIllegalTransition))

	require.NoError(t, task.start(now))
	assert.True(t, errors.Is(task.start(now), apperr.ErrIllegalTransition))

	require.NoError(t, task.complete(now.Add(2*time.Second), response.ParsedResult{}, 3))
	assert.Equal(t, 2*time.Second, task.ExecutionTime())
	assert.True(t, task.Status.Terminal())

	assert.True(t, errors.Is(task.start(now), apperr.ErrIllegalTransition))
	assert.True(t, errors.Is(task.fail(now, "late"), apperr.ErrIllegalTransition))
	assert.Equal(t, StatusCompleted, task.Status)
}

func TestEmptyOutputCompletes(t *testing.T) {
	backend := &scriptedBackend{reply: func(ctx context.Context, text string) (string, error) { return "   ", nil }}
	o, registry := setup(t, backend, Config{})
	require.NoError(t, registry.Open("s1", prompt.RoleSoftwareEngineer))

	task, err := o.Submit(context.Background(), Submission{SessionID: "s1", ProfileID: "p", Command: "?"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, task.Status)
	assert.Empty(t, task.Result.CodeBlocks)
	assert.Equal(t, 0, task.TokensUsed)
}

func TestCallerLeavingDoesNotStopTask(t *testing.T) {
	release := make(chan struct{})
	backend := &scriptedBackend{reply: func(ctx context.Context, text string) (string, error) {
		<-release
		return "late answer", nil
	}}
	recorder := newMemoryRecorder()
	o, registry := setup(t, backend, Config{}, WithRecorder(recorder))
	require.NoError(t, registry.Open("s1", prompt.RoleSoftwareEngineer))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	task, err := o.Submit(ctx, Submission{SessionID: "s1", ProfileID: "p", Command: "wait"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusPending, task.Status)

	close(release)
	require.NoError(t, o.Wait(context.Background()))

	statuses := recorder.statuses(task.ID)
	require.NotEmpty(t, statuses)
	assert.Equal(t, StatusCompleted, statuses[len(statuses)-1])
	assert.Equal(t, 1, historyLen(t, registry, "s1"))
}
