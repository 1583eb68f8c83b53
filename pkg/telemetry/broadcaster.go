package telemetry

import (
	"sync"
	"sync/atomic"

	"hdt-be/internal/pkg/logger"
)

const allSessions = "*"

type subscriber struct {
	ch chan Sample
}

// Broadcaster fans samples out to live observers. Publish never blocks: a
// subscriber whose buffer is full misses the frame.
type Broadcaster struct {
	mu      sync.RWMutex
	subs    map[string]map[uint64]*subscriber
	nextID  uint64
	buffer  int
	dropped atomic.Uint64
	logger  logger.ILogger
}

func NewBroadcaster(buffer int, logger logger.ILogger) *Broadcaster {
	if buffer <= 0 {
		buffer = 64
	}
	return &Broadcaster{
		subs:   make(map[string]map[uint64]*subscriber),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe returns a stream of the session's samples and a cancel func.
// The channel is closed by cancel or when the session is closed.
func (b *Broadcaster) Subscribe(sessionID string) (<-chan Sample, func()) {
	return b.subscribe(sessionID)
}

// SubscribeAll streams samples of every session. Transports that relay to
// other processes use it.
func (b *Broadcaster) SubscribeAll() (<-chan Sample, func()) {
	return b.subscribe(allSessions)
}

func (b *Broadcaster) subscribe(key string) (<-chan Sample, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	sub := &subscriber{ch: make(chan Sample, b.buffer)}
	if b.subs[key] == nil {
		b.subs[key] = make(map[uint64]*subscriber)
	}
	b.subs[key][id] = sub

	var once sync.Once
	cancel := func() {
		once.Do(func() { b.remove(key, id) })
	}
	return sub.ch, cancel
}

func (b *Broadcaster) remove(key string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set := b.subs[key]
	sub, ok := set[id]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(b.subs, key)
	}
	close(sub.ch)
}

// Publish returns how many subscribers received the sample.
func (b *Broadcaster) Publish(s Sample) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, key := range []string{s.SessionID, allSessions} {
		for _, sub := range b.subs[key] {
			select {
			case sub.ch <- s:
				delivered++
			default:
				total := b.dropped.Add(1)
				b.logger.Warn("TELEMETRY", "Subscriber buffer full, frame dropped", map[string]interface{}{
					"session_id":    s.SessionID,
					"sample_id":     s.ID,
					"dropped_total": total,
				})
			}
		}
	}
	return delivered
}

// CloseSession ends every stream of the session.
func (b *Broadcaster) CloseSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs[sessionID] {
		close(sub.ch)
		delete(b.subs[sessionID], id)
	}
	delete(b.subs, sessionID)
}

func (b *Broadcaster) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}

func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}
