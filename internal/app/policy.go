package app

import "github.com/dkeye/Parley/internal/domain"

// PurgeTrigger tells the policy how a room came to be empty.
type PurgeTrigger int

const (
	TriggerDisconnect PurgeTrigger = iota
	TriggerLeave
)

// Policy decides whether an emptied room loses its history.
type Policy interface {
	ShouldPurge(room domain.RoomName, trigger PurgeTrigger) bool
}

// DisconnectOnlyPolicy purges only when the room empties on the disconnect
// path; an explicit leave keeps history around for the next joiner.
type DisconnectOnlyPolicy struct{}

func (DisconnectOnlyPolicy) ShouldPurge(_ domain.RoomName, trigger PurgeTrigger) bool {
	return trigger == TriggerDisconnect
}

// AlwaysPolicy purges whenever a room empties, explicit leaves included.
type AlwaysPolicy struct{}

func (AlwaysPolicy) ShouldPurge(domain.RoomName, PurgeTrigger) bool { return true }

func PolicyFromConfig(purgeOnLeave bool) Policy {
	if purgeOnLeave {
		return AlwaysPolicy{}
	}
	return DisconnectOnlyPolicy{}
}
