package main

import (
	"context"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"

	"github.com/Luismorlan/socialmux/app_config"
	"github.com/Luismorlan/socialmux/fanout"
	"github.com/Luismorlan/socialmux/feed"
	"github.com/Luismorlan/socialmux/repository"
	"github.com/Luismorlan/socialmux/server"
	"github.com/Luismorlan/socialmux/server/middlewares"
	. "github.com/Luismorlan/socialmux/utils"
	"github.com/Luismorlan/socialmux/utils/dotenv"
	. "github.com/Luismorlan/socialmux/utils/flag"
	. "github.com/Luismorlan/socialmux/utils/log"
)

const appConfigPath = "cmd/server/config.yaml"

func init() {
	Log.Info("api server initialized")
}

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("api server shutdown")
}

// newRanker builds the ranking strategy, applying YAML weight overrides when
// an app config is present next to the binary config.
func newRanker() feed.Ranker {
	ranker := feed.DefaultRanker()
	if _, err := os.Stat(appConfigPath); err != nil {
		return ranker
	}

	cfg := app_config.ParseFeedAppConfig(appConfigPath)
	if cfg.RANK_RECENCY_WEIGHT != 0 {
		ranker.RecencyWeight = cfg.RANK_RECENCY_WEIGHT
	}
	if cfg.RANK_ENGAGEMENT_WEIGHT != 0 {
		ranker.EngagementWeight = cfg.RANK_ENGAGEMENT_WEIGHT
	}
	if cfg.RANK_MEDIA_WEIGHT != 0 {
		ranker.MediaWeight = cfg.RANK_MEDIA_WEIGHT
	}
	if cfg.RANK_INTERACTION_WEIGHT != 0 {
		ranker.InteractionWeight = cfg.RANK_INTERACTION_WEIGHT
	}
	if cfg.RANK_DECAY_HOURS != 0 {
		ranker.DecayHours = cfg.RANK_DECAY_HOURS
	}
	return ranker
}

func main() {
	Parse()
	defer cleanup()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	if !ByPassAuth {
		middlewares.Setup()
	}

	store, err := GetRedisCacheStore()
	if err != nil {
		Log.Fatal("fail to connect cache store : ", err)
	}
	db, err := GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect database : ", err)
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		Log.Fatal("fail to migrate database : ", err)
	}

	statsdClient := NewStatsdClient()
	counters := feed.NewCounters(store)
	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db, counters)
	posts := repository.NewPostRepository(db)
	indexer := feed.NewIndexer(store, users, follows, statsdClient)
	assembler := feed.NewAssembler(store, counters, newRanker(), posts, statsdClient)

	// In-process event bus decouples the write endpoints from fan-out: the
	// triggering request never blocks on per-follower index updates.
	eventBus := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            100,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewStdLogger(false, false),
	)
	worker := fanout.NewEventBusWorker(eventBus, indexer)
	go worker.Run(context.Background())

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(gintrace.Middleware(ServiceName))
	if !ByPassAuth {
		router.Use(middlewares.JWT())
	}

	handler := server.NewAPIHandler(assembler, counters, follows, eventBus)
	handler.RegisterRoutes(router)

	Log.Info("api server starts up")
	router.Run(":8080")
}
