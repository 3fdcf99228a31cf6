package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
)

type memberSet map[SessionID]struct{}

// registryImpl is a threadsafe in-memory membership registry.
// Removing the last member deletes the room entry inside the same critical
// section, so an emptied report can never race a concurrent join into the
// same room, and two concurrent leaves can never both observe the room empty.
type registryImpl struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomName]memberSet
	byMember map[SessionID]map[domain.RoomName]struct{}
}

func NewRegistry() Registry {
	return &registryImpl{
		rooms:    make(map[domain.RoomName]memberSet),
		byMember: make(map[SessionID]map[domain.RoomName]struct{}),
	}
}

func (r *registryImpl) Join(sid SessionID, room domain.RoomName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[room] == nil {
		r.rooms[room] = make(memberSet)
	}
	r.rooms[room][sid] = struct{}{}
	if r.byMember[sid] == nil {
		r.byMember[sid] = make(map[domain.RoomName]struct{})
	}
	r.byMember[sid][room] = struct{}{}
	log.Debug().Str("module", "core.registry").Str("sid", string(sid)).Str("room", string(room)).Msg("member joined")
}

func (r *registryImpl) Leave(sid SessionID, room domain.RoomName) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(sid, room)
}

func (r *registryImpl) leaveLocked(sid SessionID, room domain.RoomName) bool {
	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	if _, ok := members[sid]; !ok {
		return false
	}
	delete(members, sid)
	if rooms := r.byMember[sid]; rooms != nil {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(r.byMember, sid)
		}
	}
	log.Debug().Str("module", "core.registry").Str("sid", string(sid)).Str("room", string(room)).Msg("member left")
	if len(members) == 0 {
		delete(r.rooms, room)
		return true
	}
	return false
}

func (r *registryImpl) LeaveAll(sid SessionID) []Departure {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.byMember[sid]
	if len(current) == 0 {
		return nil
	}
	// leaveLocked mutates byMember, so snapshot first.
	rooms := make([]domain.RoomName, 0, len(current))
	for room := range current {
		rooms = append(rooms, room)
	}
	out := make([]Departure, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, Departure{Room: room, Emptied: r.leaveLocked(sid, room)})
	}
	return out
}

func (r *registryImpl) MembersExcept(room domain.RoomName, sid SessionID) []SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[room]
	out := make([]SessionID, 0, len(members))
	for other := range members {
		if other == sid {
			continue
		}
		out = append(out, other)
	}
	return out
}

func (r *registryImpl) Size(room domain.RoomName) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[room])
}

func (r *registryImpl) Rooms(sid SessionID) []domain.RoomName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RoomName, 0, len(r.byMember[sid]))
	for room := range r.byMember[sid] {
		out = append(out, room)
	}
	return out
}

func (r *registryImpl) List() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RoomInfo, 0, len(r.rooms))
	for name, members := range r.rooms {
		out = append(out, RoomInfo{Name: name, MemberCount: len(members)})
	}
	return out
}
