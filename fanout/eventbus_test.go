package fanout

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Luismorlan/socialmux/model"
)

func publishRaw(bus *gochannel.GoChannel, payload []byte) error {
	return bus.Publish(TopicPostEvent, message.NewMessage(uuid.New().String(), payload))
}

func TestEventBusRoundtrip(t *testing.T) {
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	store := newTestCacheStore()
	worker := NewEventBusWorker(bus, newTestIndexer(store))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	// Give the subscriber a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	event := &model.PostEvent{
		PostId:         100,
		AuthorId:       2,
		CreatedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		ContentSnippet: "hello bus",
	}
	require.NoError(t, PublishPostEvent(bus, event))

	deadline := time.Now().Add(2 * time.Second)
	for store.feedSize(2) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 1, store.feedSize(2))
	assert.Equal(t, 1, store.feedSize(10))
}

func TestEventBusWorkerToleratesGarbagePayloads(t *testing.T) {
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	store := newTestCacheStore()
	worker := NewEventBusWorker(bus, newTestIndexer(store))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, publishRaw(bus, []byte("{not json")))
	require.NoError(t, PublishPostEvent(bus, &model.PostEvent{
		PostId:         100,
		AuthorId:       2,
		CreatedAt:      time.Now(),
		ContentSnippet: "still works",
	}))

	deadline := time.Now().Add(2 * time.Second)
	for store.feedSize(2) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 1, store.feedSize(2))
}
