package conversation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hdt-be/internal/pkg/logger"
	"hdt-be/pkg/apperr"
	"hdt-be/pkg/llm"
	"hdt-be/pkg/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeBackend struct {
	starts atomic.Int32
	closes atomic.Int32
	system string
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) StartConversation(ctx context.Context, systemInstruction string) (llm.Conversation, error) {
	b.starts.Add(1)
	b.system = systemInstruction
	return &fakeConversation{backend: b}, nil
}

type fakeConversation struct {
	backend *fakeBackend
}

func (c *fakeConversation) Send(ctx context.Context, text string) (string, error) {
	return "echo: " + text, nil
}

func (c *fakeConversation) Close() error {
	c.backend.closes.Add(1)
	return nil
}

func newTestRegistry(backend llm.Backend) *Registry {
	return NewRegistry(backend, logger.NewNopLogger())
}

func TestOpenIsIdempotent(t *testing.T) {
	r := newTestRegistry(nil)

	require.NoError(t, r.Open("s1", prompt.RoleOfficeWorker))
	assert.ErrorIs(t, r.Open("s1", prompt.RoleFactoryWorker), ErrAlreadyOpen)

	err := r.WithContext("s1", func(c *Context) error {
		assert.Equal(t, prompt.RoleOfficeWorker, c.Role)
		assert.Equal(t, prompt.RoleOfficeWorker.SystemInstruction(), c.SystemInstruction)
		return nil
	})
	require.NoError(t, err)
}

func TestWithContextUnknownSession(t *testing.T) {
	r := newTestRegistry(nil)

	called := false
	err := r.WithContext("missing", func(*Context) error {
		called = true
		return nil
	})
	assert.True(t, errors.Is(err, apperr.ErrSessionNotFound))
	assert.False(t, called)
}

func TestWithContextReturnsFnError(t *testing.T) {
	r := newTestRegistry(nil)
	require.NoError(t, r.Open("s1", prompt.RoleSoftwareEngineer))

	boom := errors.New("boom")
	assert.ErrorIs(t, r.WithContext("s1", func(*Context) error { return boom }), boom)
}

func TestSendWithoutBackend(t *testing.T) {
	r := newTestRegistry(nil)
	require.NoError(t, r.Open("s1", prompt.RoleSoftwareEngineer))

	err := r.WithContext("s1", func(c *Context) error {
		assert.False(t, c.HasBackend())
		_, err := c.Send(context.Background(), "hello")
		return err
	})
	assert.True(t, errors.Is(err, apperr.ErrBackendUnavailable))
}

func TestSendStartsHandleLazilyAndCloseReleasesIt(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRegistry(backend)
	require.NoError(t, r.Open("s1", prompt.RoleFactoryWorker))
	assert.Equal(t, int32(0), backend.starts.Load())

	for i := 0; i < 2; i++ {
		err := r.WithContext("s1", func(c *Context) error {
			reply, err := c.Send(context.Background(), "status?")
			if err != nil {
				return err
			}
			assert.Equal(t, "echo: status?", reply)
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), backend.starts.Load())
	assert.Equal(t, prompt.RoleFactoryWorker.SystemInstruction(), backend.system)

	r.Close("s1")
	assert.Equal(t, int32(1), backend.closes.Load())
	assert.False(t, r.Has("s1"))
	assert.True(t, errors.Is(r.WithContext("s1", func(*Context) error { return nil }), apperr.ErrSessionNotFound))
}

func TestCloseUnknownIsNoop(t *testing.T) {
	r := newTestRegistry(nil)
	assert.NotPanics(t, func() { r.Close("nope") })
}

func TestHistoryIsCopied(t *testing.T) {
	r := newTestRegistry(nil)
	require.NoError(t, r.Open("s1", prompt.RoleSoftwareEngineer))

	_ = r.WithContext("s1", func(c *Context) error {
		c.Append(Exchange{Command: "a", RawResponse: "b", Kind: prompt.KindGeneral})
		h := c.History()
		h[0].Command = "mutated"
		assert.Equal(t, "a", c.History()[0].Command)
		assert.False(t, c.History()[0].At.IsZero())
		return nil
	})
}

func TestSameSessionCallsAreSerialized(t *testing.T) {
	r := newTestRegistry(nil)
	require.NoError(t, r.Open("s1", prompt.RoleSoftwareEngineer))

	var inFlight, maxInFlight atomic.Int32
	var wg sync.WaitGroup
	const n = 50

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.WithContext("s1", func(c *Context) error {
				cur := inFlight.Add(1)
				for {
					prev := maxInFlight.Load()
					if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				c.Append(Exchange{Command: "x"})
				inFlight.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load())
	_ = r.WithContext("s1", func(c *Context) error {
		assert.Equal(t, n, c.Len())
		return nil
	})
}

func TestDifferentSessionsRunInParallel(t *testing.T) {
	r := newTestRegistry(nil)
	require.NoError(t, r.Open("a", prompt.RoleSoftwareEngineer))
	require.NoError(t, r.Open("b", prompt.RoleOfficeWorker))

	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	var wg sync.WaitGroup

	for _, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = r.WithContext(id, func(*Context) error {
				entered <- struct{}{}
				<-release
				return nil
			})
		}(id)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-entered:
		case <-time.After(2 * time.Second):
			close(release)
			wg.Wait()
			t.Fatal("sessions did not run concurrently")
		}
	}
	close(release)
	wg.Wait()
}

func TestCloseWaitsForCallInFlight(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRegistry(backend)
	require.NoError(t, r.Open("s1", prompt.RoleSoftwareEngineer))

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- r.WithContext("s1", func(c *Context) error {
			if _, err := c.Send(context.Background(), "hi"); err != nil {
				return err
			}
			close(inside)
			<-release
			c.Append(Exchange{Command: "hi"})
			return nil
		})
	}()

	<-inside
	closed := make(chan struct{})
	go func() {
		r.Close("s1")
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a call held the context")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
	<-closed
	assert.Equal(t, int32(1), backend.closes.Load())
}

func TestCloseAll(t *testing.T) {
	r := newTestRegistry(nil)
	require.NoError(t, r.Open("a", prompt.RoleSoftwareEngineer))
	require.NoError(t, r.Open("b", prompt.RoleSoftwareEngineer))

	r.CloseAll()
	assert.False(t, r.Has("a"))
	assert.False(t, r.Has("b"))
}
