package app_config

import (
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"
)

// FeedAppConfig customizes the fan-out worker and the ranking strategy
// without a rebuild. Zero values fall back to the compiled-in defaults.
type FeedAppConfig struct {
	// SQS queue carrying post lifecycle events from the post service.
	POST_EVENT_QUEUE_NAME string `yaml:"POST_EVENT_QUEUE_NAME"`
	// How many messages to pull per receive call, 1 to 10.
	QUEUE_READ_BATCH_SIZE int64 `yaml:"QUEUE_READ_BATCH_SIZE"`
	// Protective delay between receive calls, in seconds.
	QUEUE_POLL_DELAY_SECOND int64 `yaml:"QUEUE_POLL_DELAY_SECOND"`

	// Ranking weight overrides. Any field left at zero keeps the default.
	RANK_RECENCY_WEIGHT     float64 `yaml:"RANK_RECENCY_WEIGHT"`
	RANK_ENGAGEMENT_WEIGHT  float64 `yaml:"RANK_ENGAGEMENT_WEIGHT"`
	RANK_MEDIA_WEIGHT       float64 `yaml:"RANK_MEDIA_WEIGHT"`
	RANK_INTERACTION_WEIGHT float64 `yaml:"RANK_INTERACTION_WEIGHT"`
	RANK_DECAY_HOURS        float64 `yaml:"RANK_DECAY_HOURS"`
}

func ParseFeedAppConfig(path string) FeedAppConfig {
	c := FeedAppConfig{}
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatal("yamlFile. get err: ", err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		log.Fatal("Unmarshal: ", err)
	}
	return c
}
