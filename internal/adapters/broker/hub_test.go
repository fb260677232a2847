package broker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/frameconv/internal/adapters/broker"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type binding struct {
	topic    string
	consumer string
	bound    bool
}

type observer struct {
	events []binding
}

func (o *observer) Bind(topic, consumer string) {
	o.events = append(o.events, binding{topic: topic, consumer: consumer, bound: true})
}

func (o *observer) Unbind(topic string) {
	o.events = append(o.events, binding{topic: topic})
}

func newHub(t *testing.T) *broker.Hub {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return broker.NewHub(log)
}

func tf(v float64) domain.Transformation {
	m := domain.Identity()
	m[3] = v
	return domain.Transformation{From: 1, To: 2, Matrix: m}
}

func TestHub_PublishFansOut(t *testing.T) {
	hub := newHub(t)
	a := hub.Subscribe("FrameTransformation.1.2")
	b := hub.Subscribe("FrameTransformation.1.2")
	other := hub.Subscribe("FrameTransformation.2.1")
	t.Cleanup(func() {
		a.Close()
		b.Close()
		other.Close()
	})

	require.NoError(t, hub.Publish(t.Context(), "FrameTransformation.1.2", tf(1)))

	assert.Equal(t, tf(1), <-a.C)
	assert.Equal(t, tf(1), <-b.C)
	assert.Empty(t, other.C)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 3, hub.Subscribers())
}

func TestHub_SendTo(t *testing.T) {
	hub := newHub(t)
	a := hub.Subscribe("FrameTransformation.1.2")
	b := hub.Subscribe("FrameTransformation.1.2")
	defer a.Close()
	defer b.Close()

	require.NoError(t, hub.SendTo(t.Context(), b.ID, tf(2)))
	assert.Empty(t, a.C)
	assert.Equal(t, tf(2), <-b.C)

	err := hub.SendTo(t.Context(), "nobody", tf(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, broker.ErrUnknownConsumer)
}

func TestHub_SlowSubscriberDrops(t *testing.T) {
	hub := newHub(t)
	sub := hub.Subscribe("FrameTransformation.1.2")
	defer sub.Close()

	for i := range broker.DefaultSubscriptionBuffer + 3 {
		require.NoError(t, hub.Publish(t.Context(), sub.Topic, tf(float64(i))))
	}

	assert.Equal(t, uint64(3), hub.Dropped())
	assert.Equal(t, tf(0), <-sub.C, "oldest messages are kept")
}

func TestHub_CloseUnbinds(t *testing.T) {
	hub := newHub(t)
	obs := &observer{}
	hub.Observe(obs)

	sub := hub.Subscribe("FrameTransformation.1.2")
	sub.Close()
	sub.Close()

	_, open := <-sub.C
	assert.False(t, open)
	assert.Zero(t, hub.Subscribers())
	require.NoError(t, hub.Publish(t.Context(), sub.Topic, tf(1)))

	assert.Equal(t, []binding{
		{topic: "FrameTransformation.1.2", consumer: sub.ID, bound: true},
		{topic: "FrameTransformation.1.2"},
	}, obs.events)
}
