package router

import (
	"context"
	"time"

	"github.com/routepath/asrouter/link"
	"github.com/routepath/asrouter/metrics"
)

// frame is one message read off a link, funneled into the shared dispatch
// channel that the loop drains one at a time. A per-link reader goroutine
// is the only concession to parallelism; it does no routing work of its
// own, so Router's exported state is still only ever touched from the loop
// goroutine.
type frame struct {
	link link.Link
	data []byte
	err  error
}

// Run drives the single-threaded cooperative event loop: one goroutine per
// link blocks on ReadFrame and forwards results into a shared channel;
// this goroutine drains that channel one frame at a time, handing each to
// OnMessage, until ctx is cancelled or a read on any link fails or hangs up.
func (r *Router) Run(ctx context.Context) error {
	frames := make(chan frame, 128)

	for _, l := range r.links {
		go readLoop(ctx, l, frames)
	}

	for {
		select {
		case <-ctx.Done():
			r.log.Info("stopped event loop", "reason", context.Cause(ctx))
			return nil
		case f := <-frames:
			if f.err != nil {
				r.log.Info("link closed, stopped event loop", "remote", f.link.Remote(), "err", f.err)
				return nil
			}
			start := time.Now()
			r.OnMessage(f.link, f.data)
			metrics.DispatchLatency.Add(float64(time.Since(start).Microseconds()))
		}
	}
}

// readLoop repeatedly reads frames from l and forwards them until ctx is
// cancelled or a read fails, at which point it reports the failure once and
// returns. It never touches Router state directly, only the channel.
func readLoop(ctx context.Context, l link.Link, out chan<- frame) {
	for {
		data, err := l.ReadFrame()
		if err != nil {
			select {
			case out <- frame{link: l, err: err}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case out <- frame{link: l, data: data}:
		case <-ctx.Done():
			return
		}
	}
}
