package fanout

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Luismorlan/socialmux/feed"
	"github.com/Luismorlan/socialmux/model"
	. "github.com/Luismorlan/socialmux/utils/log"
)

// TopicPostEvent carries post lifecycle events published by write endpoints
// in the same process.
const TopicPostEvent = "post.event"

// PublishPostEvent pushes a post event onto the in-process event bus. The
// publishing request doesn't block on fan-out completion; indexing happens on
// the subscriber side.
func PublishPostEvent(bus *gochannel.GoChannel, event *model.PostEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "fail to encode post event")
	}
	return bus.Publish(TopicPostEvent, message.NewMessage(uuid.New().String(), payload))
}

// EventBusWorker subscribes to the in-process event bus and fans out each
// post event. It runs for the lifetime of the server process.
type EventBusWorker struct {
	EventBus *gochannel.GoChannel
	Indexer  *feed.Indexer
}

func NewEventBusWorker(bus *gochannel.GoChannel, indexer *feed.Indexer) *EventBusWorker {
	return &EventBusWorker{
		EventBus: bus,
		Indexer:  indexer,
	}
}

// Run blocks consuming post events until the context is cancelled. Indexing
// failures are logged and the event is acked regardless: fan-out is best
// effort and the relational source of truth is unaffected.
func (w *EventBusWorker) Run(ctx context.Context) error {
	messages, err := w.EventBus.Subscribe(ctx, TopicPostEvent)
	if err != nil {
		return errors.Wrap(err, "fail to subscribe to post events")
	}

	for msg := range messages {
		msg.Ack()

		var event model.PostEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			Log.Errorf("fail to decode post event %s: %v", msg.UUID, err)
			continue
		}
		if err := w.Indexer.OnPostEvent(ctx, &event); err != nil {
			Log.Errorf("fail to fan out post %d: %v", event.PostId, err)
		}
	}
	return nil
}
