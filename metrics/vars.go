// Package metrics publishes operational counters for the router:
// github.com/encodeous/metric histograms and counters exposed both via
// expvar and a /debug/metrics handler. None of this is part of the routing
// protocol itself — it's ambient observability the router carries
// regardless of protocol scope.
package metrics

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	// DispatchLatency tracks how long OnMessage takes per
	// call, in microseconds.
	DispatchLatency = metric.NewHistogram("1m1s")

	UpdatesPerSecond    = metric.NewCounter("10s1s")
	RevokesPerSecond    = metric.NewCounter("10s1s")
	DataPerSecond       = metric.NewCounter("10s1s")
	DumpsPerSecond      = metric.NewCounter("10s1s")
	NoRoutePerSecond    = metric.NewCounter("10s1s")
	MalformedPerSecond  = metric.NewCounter("10s1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("asrouter:DispatchLatency (µs)", DispatchLatency)
	expvar.Publish("asrouter:Updates/s", UpdatesPerSecond)
	expvar.Publish("asrouter:Revokes/s", RevokesPerSecond)
	expvar.Publish("asrouter:Data/s", DataPerSecond)
	expvar.Publish("asrouter:Dumps/s", DumpsPerSecond)
	expvar.Publish("asrouter:NoRoute/s", NoRoutePerSecond)
	expvar.Publish("asrouter:Malformed/s", MalformedPerSecond)
}
