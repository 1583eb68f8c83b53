package telemetry

import (
	"testing"

	"hdt-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSessionAndFirehose(t *testing.T) {
	b := NewBroadcaster(4, logger.NewNopLogger())

	mine, cancelMine := b.Subscribe("s1")
	defer cancelMine()
	other, cancelOther := b.Subscribe("s2")
	defer cancelOther()
	all, cancelAll := b.SubscribeAll()
	defer cancelAll()

	delivered := b.Publish(Sample{ID: "x", SessionID: "s1"})
	assert.Equal(t, 2, delivered)

	assert.Equal(t, "x", (<-mine).ID)
	assert.Equal(t, "x", (<-all).ID)
	assert.Len(t, other, 0)
}

func TestSlowSubscriberDropsWithoutBlocking(t *testing.T) {
	b := NewBroadcaster(2, logger.NewNopLogger())

	slow, cancelSlow := b.Subscribe("s1")
	defer cancelSlow()
	fast, cancelFast := b.Subscribe("s1")
	defer cancelFast()

	received := 0
	for i := 0; i < 5; i++ {
		b.Publish(Sample{SessionID: "s1"})
		<-fast
		received++
	}

	assert.Equal(t, 5, received)
	assert.Len(t, slow, 2)
	assert.Equal(t, uint64(3), b.Dropped())
}

func TestCancelClosesStreamOnce(t *testing.T) {
	b := NewBroadcaster(1, logger.NewNopLogger())

	ch, cancel := b.Subscribe("s1")
	require.Equal(t, 1, b.Subscribers("s1"))

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers("s1"))
	assert.Equal(t, 0, b.Publish(Sample{SessionID: "s1"}))
}

func TestCloseSessionThenCancel(t *testing.T) {
	b := NewBroadcaster(1, logger.NewNopLogger())

	ch, cancel := b.Subscribe("s1")
	b.CloseSession("s1")
	_, open := <-ch
	assert.False(t, open)
	assert.NotPanics(t, cancel)
}
