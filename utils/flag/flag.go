/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer    = "api_server"
	FanoutWorker = "fanout_worker"
)

var (
	IsDevelopment bool
	ServiceName   string
	ByPassAuth    bool
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "'api_server' or 'fanout_worker'")
	flag.BoolVar(&ByPassAuth, "no_auth", false, "skip the JWT auth middleware, for local development only")
}

// Parse must be called at the start of every main. Parsing cannot happen in
// init because test binaries register their own flags after package init.
func Parse() {
	flag.Parse()
}
