package router

import (
	"encoding/json"
	"slices"

	"github.com/routepath/asrouter/addr"
	"github.com/routepath/asrouter/history"
	"github.com/routepath/asrouter/link"
	"github.com/routepath/asrouter/metrics"
	"github.com/routepath/asrouter/policy"
	"github.com/routepath/asrouter/route"
	"github.com/routepath/asrouter/table"
	"github.com/routepath/asrouter/wire"
)

// OnMessage decodes the envelope's type and hands it to the matching
// handler. A malformed message (invalid JSON, missing required field) is
// logged at debug level and otherwise ignored; an unrecognized type is
// likewise logged at debug level and ignored, with no reply to the sender.
func (r *Router) OnMessage(ingress link.Link, frame []byte) {
	msg, err := wire.Decode(frame)
	if err != nil {
		metrics.MalformedPerSecond.Add(1)
		r.log.Debug("malformed message", "from", ingress.Remote(), "err", err)
		return
	}

	switch msg.Type {
	case wire.TypeUpdate:
		metrics.UpdatesPerSecond.Add(1)
		r.handleUpdate(ingress, msg)
	case wire.TypeRevoke:
		metrics.RevokesPerSecond.Add(1)
		r.handleRevoke(ingress, msg)
	case wire.TypeData:
		metrics.DataPerSecond.Add(1)
		r.handleData(ingress, msg)
	case wire.TypeDump:
		metrics.DumpsPerSecond.Add(1)
		r.handleDump(ingress, msg)
	default:
		r.log.Debug("ignoring unknown message type", "type", msg.Type, "from", ingress.Remote())
	}
}

func (r *Router) relationOf(peer route.Peer) (policy.Relation, bool) {
	l, ok := r.links[link.Endpoint(peer)]
	if !ok {
		return 0, false
	}
	return l.Relation(), true
}

// handleUpdate appends the announcement to history, inserts it through the
// aggregator, then re-advertises it under policy.
func (r *Router) handleUpdate(ingress link.Link, msg wire.Message) {
	var payload wire.UpdatePayload
	if err := json.Unmarshal(msg.Msg, &payload); err != nil {
		r.log.Debug("malformed update payload", "from", ingress.Remote(), "err", err)
		return
	}
	network, err := addr.ParseIP(payload.Network)
	if err != nil {
		r.log.Debug("malformed update network", "from", ingress.Remote(), "err", err)
		return
	}
	netmask, err := addr.ParseIP(payload.Netmask)
	if err != nil {
		r.log.Debug("malformed update netmask", "from", ingress.Remote(), "err", err)
		return
	}

	peer := route.Peer(ingress.Remote())
	entry := route.Entry{
		Peer:       peer,
		LocalPref:  payload.LocalPref,
		SelfOrigin: payload.SelfOrigin,
		ASPath:     append([]int(nil), payload.ASPath...),
		Origin:     route.ParseOrigin(payload.Origin),
	}
	ann := route.Announcement{Network: network, Netmask: netmask, Entry: entry}

	r.hist.AppendUpdate(peer, ann)
	r.tbl.Insert(ann)

	r.log.Debug("learned route", "peer", peer, "network", network, "netmask", netmask)

	for _, egress := range r.permittedEgress(ingress) {
		out := payload
		out.ASPath = extendASPath(payload.ASPath, r.asn)
		r.sendOrLog(egress, wire.TypeUpdate, out)
	}
}

// extendASPath copies path and appends asn only if it isn't already
// present, so a route re-advertised back around a loop never accumulates
// duplicate AS numbers. The input is never mutated.
func extendASPath(path []int, asn int) []int {
	out := append([]int(nil), path...)
	if slices.Contains(out, asn) {
		return out
	}
	return append(out, asn)
}

// handleRevoke appends to history, records the nullifications, rebuilds the
// table from scratch, then propagates the revoke body unchanged under
// policy.
func (r *Router) handleRevoke(ingress link.Link, msg wire.Message) {
	var payload wire.RevokePayload
	if err := json.Unmarshal(msg.Msg, &payload); err != nil {
		r.log.Debug("malformed revoke payload", "from", ingress.Remote(), "err", err)
		return
	}

	peer := route.Peer(ingress.Remote())
	prefixes := make([]history.RevokedPrefix, 0, len(payload))
	for _, entry := range payload {
		network, err := addr.ParseIP(entry.Network)
		if err != nil {
			r.log.Debug("malformed revoke network", "from", ingress.Remote(), "err", err)
			return
		}
		netmask, err := addr.ParseIP(entry.Netmask)
		if err != nil {
			r.log.Debug("malformed revoke netmask", "from", ingress.Remote(), "err", err)
			return
		}
		prefixes = append(prefixes, history.RevokedPrefix{Network: network, Netmask: netmask})
	}

	r.hist.AppendRevoke(peer, prefixes)
	for _, p := range prefixes {
		r.hist.RecordRevocation(peer, p.Network, p.Netmask)
	}
	r.tbl = table.Rebuild(r.hist)

	r.log.Debug("revoked routes, rebuilt table", "peer", peer, "count", len(prefixes))

	for _, egress := range r.permittedEgress(ingress) {
		r.sendOrLog(egress, wire.TypeRevoke, payload)
	}
}

// handleData forwards on the best route if policy permits it, else replies
// "no route" to the ingress link.
func (r *Router) handleData(ingress link.Link, msg wire.Message) {
	dest, err := addr.ParseIP(msg.Dst)
	if err != nil {
		r.log.Debug("malformed data destination", "from", ingress.Remote(), "dst", msg.Dst, "err", err)
		return
	}

	peer, ok := r.tbl.BestRoute(dest, ingress.Relation(), r.relationOf)
	if ok {
		egress, ok := r.links[link.Endpoint(peer)]
		if ok {
			if err := egress.Send(msg); err != nil {
				r.log.Error("send failed", "to", egress.Remote(), "err", err)
			}
			return
		}
	}

	metrics.NoRoutePerSecond.Add(1)
	reply := wire.Message{
		Src:  string(ingress.Local()),
		Dst:  msg.Src,
		Type: wire.TypeNoRoute,
		Msg:  emptyObject,
	}
	if err := ingress.Send(reply); err != nil {
		r.log.Error("no-route reply failed", "to", ingress.Remote(), "err", err)
	}
}

// handleDump replies with the current table, reduced to
// {network, netmask, peer} rows.
func (r *Router) handleDump(ingress link.Link, msg wire.Message) {
	rows := r.tbl.Rows()
	payload := make(wire.TablePayload, 0, len(rows))
	for _, row := range rows {
		payload = append(payload, wire.TableRow{
			Network: row.Network.String(),
			Netmask: row.Netmask.String(),
			Peer:    string(row.Peer),
		})
	}
	reply, err := wire.Encode(msg.Dst, msg.Src, wire.TypeTable, payload)
	if err != nil {
		r.log.Error("encode table dump failed", "err", err)
		return
	}
	if err := ingress.Send(reply); err != nil {
		r.log.Error("dump reply failed", "to", ingress.Remote(), "err", err)
	}
}

// permittedEgress returns every link other than ingress that the
// control-plane policy rule permits an announcement from ingress to reach.
func (r *Router) permittedEgress(ingress link.Link) []link.Link {
	var out []link.Link
	for endpoint, l := range r.links {
		if endpoint == ingress.Remote() {
			continue
		}
		if policy.Allowed(ingress.Relation(), l.Relation()) {
			out = append(out, l)
		}
	}
	return out
}

func (r *Router) sendOrLog(egress link.Link, typ wire.Type, payload any) {
	msg, err := wire.Encode(string(egress.Local()), string(egress.Remote()), typ, payload)
	if err != nil {
		r.log.Error("encode failed", "type", typ, "err", err)
		return
	}
	if err := egress.Send(msg); err != nil {
		r.log.Error("re-advertise failed", "to", egress.Remote(), "err", err)
	}
}

var emptyObject = json.RawMessage(`{}`)
