package utils

import (
	"os"

	"github.com/DataDog/datadog-go/statsd"

	. "github.com/Luismorlan/socialmux/utils/log"
)

// NewStatsdClient creates the dogstatsd client used for feed metrics. A nil
// client is returned when the agent is unreachable; datadog-go treats calls
// on a nil client as no-ops, so callers don't need to guard.
func NewStatsdClient() *statsd.Client {
	addr := os.Getenv("STATSD_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8125"
	}
	client, err := statsd.New(addr)
	if err != nil {
		Log.Errorf("fail to create statsd client: %v", err)
		return nil
	}
	return client
}
