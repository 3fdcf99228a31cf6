package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

// Relay binds the membership registry, the history store and the outbound
// delivery port. Every collaborator is injected; the engine keeps no state
// of its own.
type Relay struct {
	Registry core.Registry
	History  core.History
	Out      core.Outbound
	Policy   Policy
}

// Join registers the connection in the room and delivers the room's history
// to it, oldest first. A failed history fetch does not roll the membership
// back: the joiner gets an error signal instead of the backlog.
func (r *Relay) Join(ctx context.Context, sid core.SessionID, room domain.RoomName) {
	r.Registry.Join(sid, room)
	msgs, err := r.History.ByRoom(ctx, room)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Str("sid", string(sid)).Str("room", string(room)).Msg("history fetch failed")
		r.Out.Error(sid, "could not load history")
		return
	}
	r.Out.History(sid, room, msgs)
}

// Send relays msg to every other member of its room, then persists it.
// The broadcast goes out before the store is touched, so recipients never
// wait on storage latency; the sender alone learns how persistence went.
func (r *Relay) Send(ctx context.Context, sid core.SessionID, msg domain.Message) {
	if err := msg.Validate(); err != nil {
		log.Warn().Err(err).Str("module", "app.relay").Str("sid", string(sid)).Msg("invalid message")
		r.Out.Error(sid, err.Error())
		return
	}
	// Same normalization the join path applies, so routing, persistence and
	// the eventual purge all see one room name.
	room := domain.NewRoomName(msg.Room)
	msg.Room = string(room)
	if targets := r.Registry.MembersExcept(room, sid); len(targets) > 0 {
		r.Out.Relay(targets, msg)
	}
	if err := r.History.Append(ctx, &msg); err != nil {
		// Recipients already hold the broadcast copy; only the sender is
		// told the message never made it into history.
		log.Error().Err(err).Str("module", "app.relay").Str("sid", string(sid)).Str("room", msg.Room).Msg("persist failed")
		r.Out.Error(sid, "could not save message")
		return
	}
	r.Out.Saved(sid, msg)
}

// Leave removes the connection from one room without tearing the connection
// down. Whether an emptied room loses its history is up to the policy.
func (r *Relay) Leave(ctx context.Context, sid core.SessionID, room domain.RoomName) {
	if r.Registry.Leave(sid, room) && r.Policy.ShouldPurge(room, TriggerLeave) {
		r.purge(ctx, room)
	}
}

// Disconnect removes the connection from every room it belongs to and purges
// the history of each room that emptied. A failed purge is logged and
// skipped; the next empty-room event for that room retries it.
func (r *Relay) Disconnect(ctx context.Context, sid core.SessionID) {
	departures := r.Registry.LeaveAll(sid)
	for _, dep := range departures {
		if dep.Emptied && r.Policy.ShouldPurge(dep.Room, TriggerDisconnect) {
			r.purge(ctx, dep.Room)
		}
	}
	log.Info().Str("module", "app.relay").Str("sid", string(sid)).Int("rooms", len(departures)).Msg("disconnected")
}

func (r *Relay) purge(ctx context.Context, room domain.RoomName) {
	n, err := r.History.Purge(ctx, room)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Str("room", string(room)).Msg("history purge failed")
		return
	}
	log.Info().Str("module", "app.relay").Str("room", string(room)).Int64("count", n).Msg("room history purged")
}
