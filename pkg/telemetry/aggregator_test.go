package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hdt-be/internal/pkg/logger"
	"hdt-be/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

func ptr(v float64) *float64 { return &v }

type recordingSink struct {
	mu      sync.Mutex
	samples []Sample
	err     error
}

func (s *recordingSink) StoreSample(ctx context.Context, sample Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
	return s.err
}

func newTestAggregator(sink Sink) *Aggregator {
	nop := logger.NewNopLogger()
	return NewAggregator(NewBroadcaster(8, nop), sink, time.Hour, nop)
}

func physiological(sessionID string, load, stress *float64) Sample {
	return Sample{
		SessionID:     sessionID,
		Kind:          KindPhysiological,
		Physiological: &Physiological{CognitiveLoad: load, StressLevel: stress},
	}
}

func TestAverageCognitiveLoad(t *testing.T) {
	a := newTestAggregator(nil)
	a.Start("s1")

	for _, load := range []float64{0.2, 0.4, 0.6} {
		_, err := a.Ingest(context.Background(), physiological("s1", ptr(load), ptr(load*10)))
		require.NoError(t, err)
	}

	summary, ok := a.Summary("s1")
	require.True(t, ok)
	require.NotNil(t, summary.AvgCognitiveLoad)
	assert.InDelta(t, 0.4, *summary.AvgCognitiveLoad, 1e-9)
	assert.InDelta(t, 4.0, *summary.AvgStressLevel, 1e-9)
	assert.Equal(t, 3, summary.PhysiologicalSamples)
	assert.False(t, summary.Final())
}

func TestNoPhysiologicalSamplesGivesAbsentAverages(t *testing.T) {
	a := newTestAggregator(nil)
	a.Start("s1")

	_, err := a.Ingest(context.Background(), Sample{
		SessionID: "s1",
		Kind:      KindActivity,
		Activity:  &Activity{ActivityType: "typing"},
	})
	require.NoError(t, err)

	summary, ok := a.Summary("s1")
	require.True(t, ok)
	assert.Nil(t, summary.AvgCognitiveLoad)
	assert.Nil(t, summary.AvgStressLevel)
	assert.Equal(t, 1, summary.ActivitySamples)
}

func TestMissingReadingCountsAsZero(t *testing.T) {
	a := newTestAggregator(nil)
	a.Start("s1")

	_, err := a.Ingest(context.Background(), physiological("s1", ptr(0.8), nil))
	require.NoError(t, err)
	_, err = a.Ingest(context.Background(), physiological("s1", nil, nil))
	require.NoError(t, err)

	summary, _ := a.Summary("s1")
	assert.InDelta(t, 0.4, *summary.AvgCognitiveLoad, 1e-9)
	assert.InDelta(t, 0.0, *summary.AvgStressLevel, 1e-9)
}

func TestIngestRejects(t *testing.T) {
	a := newTestAggregator(nil)
	a.Start("s1")

	tests := []struct {
		name   string
		sample Sample
		kind   error
	}{
		{"unknown session", physiological("other", ptr(1), nil), apperr.ErrSessionNotFound},
		{"missing session id", physiological("", ptr(1), nil), apperr.ErrValidation},
		{"unknown kind", Sample{SessionID: "s1", Kind: "sleep"}, apperr.ErrValidation},
		{"payload mismatch", Sample{SessionID: "s1", Kind: KindActivity, Physiological: &Physiological{}}, apperr.ErrValidation},
		{"activity without type", Sample{SessionID: "s1", Kind: KindActivity, Activity: &Activity{}}, apperr.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Ingest(context.Background(), tt.sample)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestIngestFillsIdentityAndFeedsSink(t *testing.T) {
	sink := &recordingSink{err: errors.New("queue down")}
	a := newTestAggregator(sink)
	a.Start("s1")

	stored, err := a.Ingest(context.Background(), physiological("s1", ptr(0.5), nil))
	require.NoError(t, err, "sink failures do not fail ingestion")
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.Timestamp.IsZero())

	require.Len(t, sink.samples, 1)
	assert.Equal(t, stored.ID, sink.samples[0].ID)
}

func TestLatest(t *testing.T) {
	a := newTestAggregator(nil)
	a.Start("s1")

	_, _, err := a.Latest("nope")
	assert.True(t, errors.Is(err, apperr.ErrSessionNotFound))

	_, _ = a.Ingest(context.Background(), physiological("s1", ptr(0.1), nil))
	second, _ := a.Ingest(context.Background(), physiological("s1", ptr(0.9), nil))

	phys, act, err := a.Latest("s1")
	require.NoError(t, err)
	assert.Nil(t, act)
	require.NotNil(t, phys)
	assert.Equal(t, second.ID, phys.ID)
}

func TestFinalizeFreezesSummaryAndEndsStreams(t *testing.T) {
	a := newTestAggregator(nil)
	a.Start("s1")

	stream, cancel, err := a.Subscribe("s1")
	require.NoError(t, err)
	defer cancel()

	_, _ = a.Ingest(context.Background(), physiological("s1", ptr(0.3), ptr(2)))
	<-stream

	final, ok := a.Finalize("s1")
	require.True(t, ok)
	assert.True(t, final.Final())
	assert.False(t, a.Active("s1"))

	_, open := <-stream
	assert.False(t, open)

	_, err = a.Ingest(context.Background(), physiological("s1", ptr(0.9), nil))
	assert.True(t, errors.Is(err, apperr.ErrSessionNotFound))

	again, ok := a.Finalize("s1")
	require.True(t, ok)
	assert.Equal(t, final, again)

	frozen, ok := a.Summary("s1")
	require.True(t, ok)
	assert.InDelta(t, 0.3, *frozen.AvgCognitiveLoad, 1e-9)
}

func TestFinalizeUnknown(t *testing.T) {
	a := newTestAggregator(nil)
	_, ok := a.Finalize("ghost")
	assert.False(t, ok)
	_, ok = a.Summary("ghost")
	assert.False(t, ok)
}

func TestConcurrentIngestion(t *testing.T) {
	a := newTestAggregator(nil)
	a.Start("s1")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := a.Ingest(context.Background(), physiological("s1", ptr(0.5), ptr(1)))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	summary, _ := a.Summary("s1")
	assert.Equal(t, 1000, summary.PhysiologicalSamples)
	assert.InDelta(t, 0.5, *summary.AvgCognitiveLoad, 1e-9)
}
