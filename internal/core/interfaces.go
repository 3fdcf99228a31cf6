package core

import (
	"context"

	"github.com/dkeye/Parley/internal/domain"
)

// Frame is a raw encoded payload ready for the wire.
type Frame []byte

// SessionID identifies one live connection.
type SessionID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Departure reports one room a connection left and whether that removal
// left the room with no members.
type Departure struct {
	Room    domain.RoomName
	Emptied bool
}

// RoomInfo is a read-only view for APIs (no transport fields).
type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"client_count"`
}

// Registry owns room membership but never touches transport resources.
// A room exists exactly as long as it has members; Leave and LeaveAll
// report which rooms emptied so the caller can act on it.
type Registry interface {
	Join(sid SessionID, room domain.RoomName)
	Leave(sid SessionID, room domain.RoomName) (emptied bool)
	LeaveAll(sid SessionID) []Departure
	MembersExcept(room domain.RoomName, sid SessionID) []SessionID
	Size(room domain.RoomName) int
	Rooms(sid SessionID) []domain.RoomName
	List() []RoomInfo
}

// History is the durable per-room message log.
type History interface {
	// Append persists msg, assigning its ID and CreatedAt.
	Append(ctx context.Context, msg *domain.Message) error
	// ByRoom returns the room's messages ordered by creation time ascending.
	ByRoom(ctx context.Context, room domain.RoomName) ([]domain.Message, error)
	// Purge deletes the room's messages and reports how many went.
	Purge(ctx context.Context, room domain.RoomName) (int64, error)
}

// Outbound carries engine results back to connections. Implemented by the
// transport adapter; the engine never encodes wire frames itself.
type Outbound interface {
	History(sid SessionID, room domain.RoomName, msgs []domain.Message)
	Relay(to []SessionID, msg domain.Message)
	Saved(sid SessionID, msg domain.Message)
	Error(sid SessionID, reason string)
}
