package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dyluth/kanban/internal/events"
)

const publishTimeout = 2 * time.Second

// RedisForwarder mirrors bus events onto the instance's Redis event channel.
// Subscribe it with bus.SubscribeAll(f.Forward).
type RedisForwarder struct {
	store   *RedisStore
	channel string
	logger  logrus.FieldLogger
}

// NewRedisForwarder creates a forwarder for the given instance.
func NewRedisForwarder(store *RedisStore, instanceName string, logger logrus.FieldLogger) *RedisForwarder {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &RedisForwarder{store: store, channel: BoardEventsChannel(instanceName), logger: logger}
}

// Forward publishes ev. Failures are logged and dropped.
func (f *RedisForwarder) Forward(ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		f.logger.WithError(err).WithField("topic", ev.Topic).Warn("failed to encode event for Redis")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := f.store.Publish(ctx, f.channel, data); err != nil {
		f.logger.WithError(err).WithField("topic", ev.Topic).Warn("failed to mirror event to Redis")
	}
}

// Message is a board event as read back from Redis.
type Message struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

// Subscription represents an active subscription to an instance's board
// events. Caller must call Close() when done.
type Subscription struct {
	messages <-chan *Message
	errors   <-chan error
	cancel   func()
	once     sync.Once
}

// Messages returns the channel of events. It is closed when the
// subscription is closed or its context is cancelled.
func (s *Subscription) Messages() <-chan *Message {
	return s.messages
}

// Errors returns the channel of non-fatal errors. Undecodable messages are
// reported here and skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription. Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeBoardEvents subscribes to the event channel of an instance. The
// subscription is confirmed by Redis before this returns, so events
// published afterwards are not missed.
//
// Events are delivered on a buffered channel (size 10); Redis Pub/Sub is
// at-most-once, so a slow reader may lose events.
func (s *RedisStore) SubscribeBoardEvents(ctx context.Context, instanceName string) (*Subscription, error) {
	pubsub := s.rdb.Subscribe(ctx, BoardEventsChannel(instanceName))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to board events: %w", err)
	}

	messages := make(chan *Message, 10)
	errs := make(chan error, 10)
	subCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(messages)
		defer close(errs)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var m Message
				if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
					select {
					case errs <- fmt.Errorf("failed to decode board event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case messages <- &m:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{messages: messages, errors: errs, cancel: cancel}, nil
}
