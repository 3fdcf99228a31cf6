package domain

const MaxRoomNameLen = 36

// RoomName identifies a broadcast domain. Rooms are caller-named and exist
// implicitly: there is no room record beyond its current membership and
// history. The empty name is degenerate but legal.
type RoomName string

// NewRoomName truncates overlong client-supplied names. No other
// normalization is applied.
func NewRoomName(raw string) RoomName {
	if len(raw) > MaxRoomNameLen {
		raw = raw[:MaxRoomNameLen]
	}
	return RoomName(raw)
}
