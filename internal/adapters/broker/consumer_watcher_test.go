package broker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/frameconv/internal/adapters/broker"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type liveness struct {
	live []domain.Path
	dead []domain.Path
	by   []string
}

func newWatcher(t *testing.T) (*broker.ConsumerWatcher, *liveness, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	l := &liveness{}
	w := broker.NewConsumerWatcher(log,
		func(path domain.Path, consumer string) {
			l.live = append(l.live, path)
			l.by = append(l.by, consumer)
		},
		func(path domain.Path) { l.dead = append(l.dead, path) },
	)
	return w, l, log
}

func TestConsumerWatcher_RefCounts(t *testing.T) {
	w, l, log := newWatcher(t)
	topic := "FrameTransformation.1000.2.1004"

	log.EXPECT().Info(`[+] topic="FrameTransformation.1000.2.1004"`).Times(1)
	log.EXPECT().Info(`[-] topic="FrameTransformation.1000.2.1004"`).Times(1)

	w.Bind(topic, "c1")
	w.Bind(topic, "c2")
	assert.Equal(t, 2, w.Count(topic))
	assert.Equal(t, []domain.Path{{1000, 2, 1004}}, l.live)
	assert.Equal(t, []string{"c1"}, l.by)

	w.Unbind(topic)
	assert.Empty(t, l.dead)
	w.Unbind(topic)
	assert.Equal(t, []domain.Path{{1000, 2, 1004}}, l.dead)
	assert.Zero(t, w.Count(topic))
}

func TestConsumerWatcher_NeverBelowZero(t *testing.T) {
	w, l, log := newWatcher(t)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	topic := "FrameTransformation.1.2"

	w.Unbind(topic)
	assert.Zero(t, w.Count(topic))
	assert.Empty(t, l.dead)

	w.Bind(topic, "c1")
	assert.Equal(t, 1, w.Count(topic))
	assert.Len(t, l.live, 1)
}

func TestConsumerWatcher_IgnoresOtherTopics(t *testing.T) {
	w, l, _ := newWatcher(t)

	for _, topic := range []string{
		"FrameTransformation.1",
		"FrameTransformation.a.b",
		"ArUco.5.FrameTransformations",
		"Other.1.2",
	} {
		w.Bind(topic, "c")
		w.Unbind(topic)
	}
	assert.Empty(t, l.live)
	assert.Empty(t, l.dead)
}

func TestConsumerWatcher_WithHub(t *testing.T) {
	w, l, log := newWatcher(t)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	hub := broker.NewHub(log)
	hub.Observe(w)

	sub := hub.Subscribe("FrameTransformation.1.2")
	assert.Equal(t, []string{sub.ID}, l.by)
	sub.Close()
	assert.Equal(t, []domain.Path{{1, 2}}, l.dead)
}
