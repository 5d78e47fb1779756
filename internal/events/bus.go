package events

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is a notification delivered to listeners.
type Event struct {
	Topic   string    `json:"topic"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Listener receives events. It runs on the publisher's goroutine.
type Listener func(Event)

type subscription struct {
	id       int
	topic    string // empty matches every topic
	listener Listener
}

// Bus is an in-process publish/subscribe channel with named topics.
// Publish is synchronous and fire-and-forget: listeners run in subscription
// order, a panicking listener is logged and skipped, and nothing is returned
// to the publisher. Publishing with no subscribers is valid.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int
	logger logrus.FieldLogger
	now    func() time.Time
}

// New creates a Bus. A nil logger discards log output.
func New(logger logrus.FieldLogger) *Bus {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Bus{logger: logger, now: time.Now}
}

// Subscribe registers listener for a single topic and returns a function
// that removes it. Calling the returned function more than once is safe.
func (b *Bus) Subscribe(topic string, listener Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, topic: topic, listener: listener})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// SubscribeAll registers listener for every topic.
func (b *Bus) SubscribeAll(listener Listener) (unsubscribe func()) {
	return b.Subscribe("", listener)
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers payload to every listener of topic.
func (b *Bus) Publish(topic string, payload any) {
	ev := Event{Topic: topic, Payload: payload, At: b.now()}
	b.logger.WithField("topic", topic).Debugf("Event published: %s", topic)

	// Listeners may subscribe or unsubscribe while being notified, so
	// deliver to a copy taken under the read lock.
	b.mu.RLock()
	targets := make([]subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.topic == "" || s.topic == topic {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range targets {
		b.deliver(s, ev)
	}
}

func (b *Bus) deliver(s subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithFields(logrus.Fields{
				"topic":        ev.Topic,
				"subscription": s.id,
			}).Errorf("listener panicked: %v", r)
		}
	}()
	s.listener(ev)
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
