package main

import (
	"context"
	"time"

	"github.com/Luismorlan/socialmux/app_config"
	"github.com/Luismorlan/socialmux/fanout"
	"github.com/Luismorlan/socialmux/feed"
	"github.com/Luismorlan/socialmux/repository"
	. "github.com/Luismorlan/socialmux/utils"
	"github.com/Luismorlan/socialmux/utils/dotenv"
	"github.com/Luismorlan/socialmux/utils/flag"
	. "github.com/Luismorlan/socialmux/utils/log"
)

const appConfigPath = "cmd/fanout/config.yaml"

func main() {
	flag.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		Log.Fatal("fail to load env : ", err)
	}

	appConfig := app_config.ParseFeedAppConfig(appConfigPath)
	batchSize := appConfig.QUEUE_READ_BATCH_SIZE
	if batchSize < 1 || batchSize > 10 {
		batchSize = 10
	}
	pollDelay := time.Duration(appConfig.QUEUE_POLL_DELAY_SECOND) * time.Second

	store, err := GetRedisCacheStore()
	if err != nil {
		Log.Fatal("fail to connect cache store : ", err)
	}
	db, err := GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect database : ", err)
	}

	reader, err := NewSQSMessageQueueReader(appConfig.POST_EVENT_QUEUE_NAME, 20)
	if err != nil {
		Log.Fatal("fail to initialize SQS message queue reader : ", err)
	}

	counters := feed.NewCounters(store)
	indexer := feed.NewIndexer(
		store,
		repository.NewUserRepository(db),
		repository.NewFollowRepository(db, counters),
		NewStatsdClient(),
	)

	// Main fan-out logic lives in processor
	processor := fanout.NewPostEventMessageProcessor(reader, indexer)

	ctx := context.Background()
	for {
		processor.ReadAndProcessMessages(ctx, batchSize)

		// Protective delay
		time.Sleep(pollDelay)
	}
}
