package fanout

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/Luismorlan/socialmux/feed"
	"github.com/Luismorlan/socialmux/model"
	. "github.com/Luismorlan/socialmux/utils"
	. "github.com/Luismorlan/socialmux/utils/log"
)

// PostEventMessageProcessor drains post lifecycle events from the message
// queue and hands each one to the fan-out indexer. The reader decides how to
// get messages from the queue; the processor decides how to process them.
type PostEventMessageProcessor struct {
	Reader  MessageQueueReader
	Indexer *feed.Indexer
}

// Create new processor with reader dependency injection
func NewPostEventMessageProcessor(reader MessageQueueReader, indexer *feed.Indexer) *PostEventMessageProcessor {
	return &PostEventMessageProcessor{
		Reader:  reader,
		Indexer: indexer,
	}
}

// ReadAndProcessMessages reads up to readBatchSize messages and processes
// them in order. It doesn't return anything, only logs errors: a poisoned
// message must not wedge the queue. Since the indexer is idempotent it is
// safe for the queue to redeliver a message whose deletion failed.
func (processor *PostEventMessageProcessor) ReadAndProcessMessages(ctx context.Context, readBatchSize int64) int {
	msgs, err := processor.Reader.ReceiveMessages(readBatchSize)

	successCount := 0
	if err != nil {
		Log.Error("fail to read post events from queue : ", err)
		return successCount
	}

	for _, msg := range msgs {
		if err := processor.ProcessOnePostEventMessage(ctx, msg); err != nil {
			Log.Errorf("fail to process one post event message. err: %v", err)
		} else {
			successCount++
		}
		if processor.Reader.DeleteMessage(msg) != nil {
			Log.Errorf("fail to delete message from queue: %v", msg.MessageId)
		}
	}
	return successCount
}

// ProcessOnePostEventMessage decodes a single queue message into a PostEvent
// and fans it out.
func (processor *PostEventMessageProcessor) ProcessOnePostEventMessage(ctx context.Context, msg *MessageQueueMessage) error {
	event, err := processor.decodePostEvent(msg)
	if err != nil {
		return err
	}
	return processor.Indexer.OnPostEvent(ctx, event)
}

func (processor *PostEventMessageProcessor) decodePostEvent(msg *MessageQueueMessage) (*model.PostEvent, error) {
	body, err := msg.Read()
	if err != nil {
		return nil, err
	}
	var event model.PostEvent
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		return nil, errors.Wrap(err, "fail to decode post event message")
	}
	return &event, nil
}
