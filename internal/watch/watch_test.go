package watch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/kanban/internal/events"
	"github.com/dyluth/kanban/internal/persistence"
	"github.com/dyluth/kanban/pkg/board"
)

// fakeSource is an in-memory Source
type fakeSource struct {
	messages chan *persistence.Message
	errors   chan error
}

func newFakeSource() *fakeSource {
	return &fakeSource{messages: make(chan *persistence.Message, 10), errors: make(chan error, 10)}
}

func (s *fakeSource) Messages() <-chan *persistence.Message { return s.messages }
func (s *fakeSource) Errors() <-chan error                  { return s.errors }

func message(t *testing.T, topic string, payload any) *persistence.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &persistence.Message{Topic: topic, Payload: raw, At: time.Now()}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		topic    string
		payload  any
		expected string
	}{
		{
			name:     "task created",
			topic:    board.TopicTaskCreated,
			payload:  board.Task{ID: "t1", Title: "Write docs", ColumnID: "todo"},
			expected: `✨ Task created: id=t1 column=todo title="Write docs"`,
		},
		{
			name:     "task updated",
			topic:    board.TopicTaskUpdated,
			payload:  board.Task{ID: "t1", Title: "Write more docs", ColumnID: "todo"},
			expected: `📝 Task updated: id=t1 title="Write more docs"`,
		},
		{
			name:     "task moved",
			topic:    board.TopicTaskMoved,
			payload:  board.TaskMoved{ID: "t1", SourceColumnID: "todo", DestinationColumnID: "done", DestinationIndex: 9, AppliedIndex: 2},
			expected: "➡️  Task moved: id=t1 from=todo to=done index=2",
		},
		{
			name:     "task deleted",
			topic:    board.TopicTaskDeleted,
			payload:  board.TaskDeleted{ID: "t1"},
			expected: "🗑️  Task deleted: id=t1",
		},
		{
			name:     "column created",
			topic:    board.TopicColumnCreated,
			payload:  board.Column{ID: "qa", Title: "QA", Color: board.ColorBlue},
			expected: `🧱 Column created: id=qa title="QA"`,
		},
		{
			name:     "column updated",
			topic:    board.TopicColumnUpdated,
			payload:  board.Column{ID: "qa", Title: "Testing", Color: board.ColorGreen},
			expected: `🎨 Column updated: id=qa title="Testing" color=bg-accent-green`,
		},
		{
			name:     "column deleted",
			topic:    board.TopicColumnDeleted,
			payload:  board.ColumnDeleted{ID: "qa", TaskIDs: []string{"t1", "t2"}},
			expected: "🗑️  Column deleted: id=qa tasks=2",
		},
		{
			name:     "unknown topic",
			topic:    "something-else",
			payload:  map[string]string{},
			expected: "• something-else",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := describe(message(t, tt.topic, tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("malformed payload", func(t *testing.T) {
		_, err := describe(&persistence.Message{Topic: board.TopicTaskDeleted, Payload: json.RawMessage(`"nope"`)})
		assert.ErrorContains(t, err, "malformed task-deleted payload")
	})
}

func TestStream(t *testing.T) {
	t.Run("default format until source closes", func(t *testing.T) {
		src := newFakeSource()
		src.messages <- message(t, board.TopicTaskDeleted, board.TaskDeleted{ID: "t1"})
		src.errors <- errors.New("failed to decode board event")
		close(src.messages)

		var buf bytes.Buffer
		require.NoError(t, Stream(context.Background(), src, OutputFormatDefault, &buf))

		out := buf.String()
		assert.Contains(t, out, "🗑️  Task deleted: id=t1\n")
		assert.True(t, strings.HasPrefix(out, "[") || strings.HasPrefix(out, "⚠️"))
	})

	t.Run("json format", func(t *testing.T) {
		src := newFakeSource()
		src.messages <- message(t, board.TopicTaskDeleted, board.TaskDeleted{ID: "t1"})
		close(src.messages)

		var buf bytes.Buffer
		require.NoError(t, Stream(context.Background(), src, OutputFormatJSON, &buf))

		var got persistence.Message
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, board.TopicTaskDeleted, got.Topic)
		assert.JSONEq(t, `{"id":"t1"}`, string(got.Payload))
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, Stream(ctx, newFakeSource(), OutputFormatDefault, &bytes.Buffer{}))
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		err := Stream(context.Background(), newFakeSource(), "yaml", &bytes.Buffer{})
		assert.ErrorContains(t, err, "unknown output format")
	})
}

func TestWaitFor(t *testing.T) {
	t.Run("skips other topics", func(t *testing.T) {
		src := newFakeSource()
		src.messages <- message(t, board.TopicTaskCreated, board.Task{ID: "a"})
		src.messages <- message(t, board.TopicTaskDeleted, board.TaskDeleted{ID: "a"})

		msg, err := WaitFor(context.Background(), src, board.TopicTaskDeleted, time.Second)
		require.NoError(t, err)
		assert.Equal(t, board.TopicTaskDeleted, msg.Topic)
	})

	t.Run("times out", func(t *testing.T) {
		_, err := WaitFor(context.Background(), newFakeSource(), board.TopicTaskMoved, 50*time.Millisecond)
		assert.ErrorContains(t, err, "timeout waiting for task-moved")
	})

	t.Run("closed stream", func(t *testing.T) {
		src := newFakeSource()
		close(src.messages)
		_, err := WaitFor(context.Background(), src, board.TopicTaskMoved, time.Second)
		assert.ErrorContains(t, err, "event stream closed")
	})
}

// End to end: bus → Redis forwarder → subscription → Stream
func TestStream_ThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	store := persistence.NewRedisStore(&redis.Options{Addr: mr.Addr()})
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := store.SubscribeBoardEvents(ctx, "default")
	require.NoError(t, err)
	defer sub.Close()

	bus := events.New(nil)
	bus.SubscribeAll(persistence.NewRedisForwarder(store, "default", nil).Forward)
	bus.Publish(board.TopicColumnCreated, board.Column{ID: "qa", Title: "QA"})

	msg, err := WaitFor(ctx, sub, board.TopicColumnCreated, time.Second)
	require.NoError(t, err)

	line, err := describe(msg)
	require.NoError(t, err)
	assert.Equal(t, `🧱 Column created: id=qa title="QA"`, line)
}
