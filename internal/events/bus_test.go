package events

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	t.Run("delivers to topic listeners in order", func(t *testing.T) {
		bus := New(nil)
		var got []string

		bus.Subscribe("task-created", func(ev Event) { got = append(got, "first:"+ev.Payload.(string)) })
		bus.Subscribe("task-created", func(ev Event) { got = append(got, "second:"+ev.Payload.(string)) })
		bus.Subscribe("task-deleted", func(ev Event) { got = append(got, "wrong topic") })

		bus.Publish("task-created", "a")

		assert.Equal(t, []string{"first:a", "second:a"}, got)
	})

	t.Run("SubscribeAll receives every topic", func(t *testing.T) {
		bus := New(nil)
		var topics []string
		bus.SubscribeAll(func(ev Event) { topics = append(topics, ev.Topic) })

		bus.Publish("task-created", nil)
		bus.Publish("column-deleted", nil)

		assert.Equal(t, []string{"task-created", "column-deleted"}, topics)
	})

	t.Run("no subscribers is valid", func(t *testing.T) {
		bus := New(nil)
		assert.NotPanics(t, func() { bus.Publish("task-moved", 1) })
	})

	t.Run("panicking listener is isolated", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		bus := New(logger)
		delivered := false

		bus.Subscribe("task-updated", func(Event) { panic("boom") })
		bus.Subscribe("task-updated", func(Event) { delivered = true })

		assert.NotPanics(t, func() { bus.Publish("task-updated", nil) })
		assert.True(t, delivered)

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		assert.Contains(t, hook.LastEntry().Message, "boom")
	})
}

func TestUnsubscribe(t *testing.T) {
	bus := New(nil)
	count := 0
	unsubscribe := bus.Subscribe("task-created", func(Event) { count++ })
	require.Equal(t, 1, bus.SubscriberCount())

	bus.Publish("task-created", nil)
	unsubscribe()
	unsubscribe()
	bus.Publish("task-created", nil)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestListenerMayUnsubscribeDuringDelivery(t *testing.T) {
	bus := New(nil)
	calls := 0
	var unsubscribe func()
	unsubscribe = bus.Subscribe("task-moved", func(Event) {
		calls++
		unsubscribe()
	})

	bus.Publish("task-moved", nil)
	bus.Publish("task-moved", nil)

	assert.Equal(t, 1, calls)
}
