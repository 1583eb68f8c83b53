package telemetry

import (
	"context"
	"sync"
	"time"

	"hdt-be/internal/pkg/logger"
	"hdt-be/pkg/apperr"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Sink durably stores ingested samples.
type Sink interface {
	StoreSample(ctx context.Context, sample Sample) error
}

type running struct {
	mu         sync.Mutex
	startedAt  time.Time
	physCount  int
	actCount   int
	sumLoad    float64
	sumStress  float64
	lastPhys   *Sample
	lastActive *Sample
}

func (r *running) summary(sessionID string) Summary {
	s := Summary{
		SessionID:            sessionID,
		PhysiologicalSamples: r.physCount,
		ActivitySamples:      r.actCount,
		StartedAt:            r.startedAt,
	}
	if r.physCount > 0 {
		load := r.sumLoad / float64(r.physCount)
		stress := r.sumStress / float64(r.physCount)
		s.AvgCognitiveLoad = &load
		s.AvgStressLevel = &stress
	}
	return s
}

// Aggregator keeps running per-session statistics and republishes every
// sample through its Broadcaster.
type Aggregator struct {
	mu          sync.RWMutex
	sessions    map[string]*running
	frozen      *cache.Cache
	broadcaster *Broadcaster
	sink        Sink
	logger      logger.ILogger
}

// NewAggregator keeps finalized summaries for retention. sink may be nil.
func NewAggregator(broadcaster *Broadcaster, sink Sink, retention time.Duration, logger logger.ILogger) *Aggregator {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &Aggregator{
		sessions:    make(map[string]*running),
		frozen:      cache.New(retention, retention/2),
		broadcaster: broadcaster,
		sink:        sink,
		logger:      logger,
	}
}

// Start begins aggregation for a session. Starting an active session keeps
// its running state.
func (a *Aggregator) Start(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.sessions[sessionID]; ok {
		return
	}
	a.sessions[sessionID] = &running{startedAt: time.Now()}
	a.frozen.Delete(sessionID)
}

func (a *Aggregator) Active(sessionID string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.sessions[sessionID]
	return ok
}

func (a *Aggregator) lookup(sessionID string) (*running, error) {
	a.mu.RLock()
	r, ok := a.sessions[sessionID]
	a.mu.RUnlock()
	if !ok {
		return nil, apperr.Newf(apperr.ErrSessionNotFound, "no active telemetry for session %s", sessionID)
	}
	return r, nil
}

// Ingest folds the sample into the session aggregate, publishes it and hands
// it to the sink. It returns the stored sample with id and timestamp filled.
func (a *Aggregator) Ingest(ctx context.Context, sample Sample) (Sample, error) {
	if err := sample.Validate(); err != nil {
		return Sample{}, err
	}
	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now().UTC()
	}

	r, err := a.lookup(sample.SessionID)
	if err != nil {
		return Sample{}, err
	}

	r.mu.Lock()
	switch sample.Kind {
	case KindPhysiological:
		r.physCount++
		// Missing readings count as zero.
		r.sumLoad += valueOrZero(sample.Physiological.CognitiveLoad)
		r.sumStress += valueOrZero(sample.Physiological.StressLevel)
		s := sample
		r.lastPhys = &s
	case KindActivity:
		r.actCount++
		s := sample
		r.lastActive = &s
	}
	// Publishing under the session lock keeps stream order equal to
	// ingestion order.
	a.broadcaster.Publish(sample)
	r.mu.Unlock()

	if a.sink != nil {
		if err := a.sink.StoreSample(ctx, sample); err != nil {
			a.logger.Error("TELEMETRY", "Failed to hand sample to sink", map[string]interface{}{
				"session_id": sample.SessionID,
				"sample_id":  sample.ID,
				"error":      err.Error(),
			})
		}
	}
	return sample, nil
}

// Summary returns the running summary of an active session, or the frozen
// one of a finalized session still in retention.
func (a *Aggregator) Summary(sessionID string) (Summary, bool) {
	if r, err := a.lookup(sessionID); err == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.summary(sessionID), true
	}
	if v, ok := a.frozen.Get(sessionID); ok {
		return v.(Summary), true
	}
	return Summary{}, false
}

// Latest returns the most recent physiological and activity samples of an
// active session. Either may be nil.
func (a *Aggregator) Latest(sessionID string) (*Sample, *Sample, error) {
	r, err := a.lookup(sessionID)
	if err != nil {
		return nil, nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPhys, r.lastActive, nil
}

// Subscribe opens a live stream for an active session.
func (a *Aggregator) Subscribe(sessionID string) (<-chan Sample, func(), error) {
	if _, err := a.lookup(sessionID); err != nil {
		return nil, nil, err
	}
	ch, cancel := a.broadcaster.Subscribe(sessionID)
	return ch, cancel, nil
}

// Finalize freezes the summary, evicts the running aggregate and ends the
// session's streams. Finalizing twice returns the frozen summary.
func (a *Aggregator) Finalize(sessionID string) (Summary, bool) {
	a.mu.Lock()
	r, ok := a.sessions[sessionID]
	delete(a.sessions, sessionID)
	a.mu.Unlock()

	if !ok {
		if v, found := a.frozen.Get(sessionID); found {
			return v.(Summary), true
		}
		return Summary{}, false
	}

	r.mu.Lock()
	summary := r.summary(sessionID)
	r.mu.Unlock()

	now := time.Now().UTC()
	summary.FinalizedAt = &now
	a.frozen.SetDefault(sessionID, summary)
	a.broadcaster.CloseSession(sessionID)

	a.logger.Info("TELEMETRY", "Session summary finalized", map[string]interface{}{
		"session_id":            sessionID,
		"physiological_samples": summary.PhysiologicalSamples,
		"activity_samples":      summary.ActivitySamples,
	})
	return summary, true
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
