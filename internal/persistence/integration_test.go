//go:build integration

package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dyluth/kanban/internal/events"
	"github.com/dyluth/kanban/pkg/board"
)

// setupRedis starts a Redis container for testing.
func setupRedis(t *testing.T) string {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := redisC.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate Redis container: %v", err)
		}
	})

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s", host, port.Port())
}

func TestRealRedis_SnapshotAndEvents(t *testing.T) {
	url := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := NewRedisStoreFromURL(url)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Ping(ctx))

	gw := NewGateway(store, BoardKey("it"), nil)
	want := sampleBoard()
	require.NoError(t, gw.Save(ctx, want))

	got, status := gw.Load(ctx)
	assert.Equal(t, LoadedSnapshot, status)
	assert.Equal(t, want, got)

	sub, err := store.SubscribeBoardEvents(ctx, "it")
	require.NoError(t, err)
	defer sub.Close()

	bus := events.New(nil)
	bus.SubscribeAll(NewRedisForwarder(store, "it", nil).Forward)
	bus.Publish(board.TopicColumnCreated, board.Column{ID: "x"})

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, board.TopicColumnCreated, msg.Topic)
	case <-ctx.Done():
		t.Fatal("timeout waiting for event")
	}
}
