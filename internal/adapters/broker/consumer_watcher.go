package broker

import (
	"fmt"
	"regexp"
	"sync"

	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
)

var transformationTopic = regexp.MustCompile(`^` + regexp.QuoteMeta(domain.TopicPrefix) + `(\.-?[0-9]+){2,}$`)

// ConsumerWatcher ref-counts consumers per transformation topic and reports
// when a topic gains its first consumer or loses its last one.
type ConsumerWatcher struct {
	logger        ports.Logger
	onNewConsumer func(path domain.Path, consumer string)
	onNoConsumers func(path domain.Path)

	mu     sync.Mutex
	counts map[string]int
}

// NewConsumerWatcher creates a watcher calling onNewConsumer on the 0 to 1
// transition of a topic and onNoConsumers on the 1 to 0 transition.
// Callbacks run with the watcher locked, so they must not block.
func NewConsumerWatcher(
	logger ports.Logger,
	onNewConsumer func(path domain.Path, consumer string),
	onNoConsumers func(path domain.Path),
) *ConsumerWatcher {
	return &ConsumerWatcher{
		logger:        logger,
		onNewConsumer: onNewConsumer,
		onNoConsumers: onNoConsumers,
		counts:        make(map[string]int),
	}
}

// Bind records a consumer of topic. Topics that are not transformation topics are ignored.
func (w *ConsumerWatcher) Bind(topic, consumer string) {
	path, ok := w.match(topic)
	if !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.counts[topic] == 0 {
		w.logger.Info(fmt.Sprintf("[+] topic=%q", topic))
		w.onNewConsumer(path, consumer)
	}
	w.counts[topic]++
}

// Unbind forgets one consumer of topic. An unbind without a matching bind is ignored.
func (w *ConsumerWatcher) Unbind(topic string) {
	path, ok := w.match(topic)
	if !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	count, bound := w.counts[topic]
	if !bound || count <= 0 {
		return
	}
	if count == 1 {
		delete(w.counts, topic)
		w.logger.Info(fmt.Sprintf("[-] topic=%q", topic))
		w.onNoConsumers(path)
		return
	}
	w.counts[topic] = count - 1
}

// Count returns the number of consumers bound to topic.
func (w *ConsumerWatcher) Count(topic string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.counts[topic]
}

func (w *ConsumerWatcher) match(topic string) (domain.Path, bool) {
	if !transformationTopic.MatchString(topic) {
		return nil, false
	}
	path, err := domain.ParseTopic(topic)
	if err != nil {
		w.logger.Warn(fmt.Sprintf("event=Consumer.BadTopic topic=%q reason=%q", topic, err.Error()))
		return nil, false
	}
	return path, true
}
