package domain

import (
	"errors"
	"testing"
)

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want error
	}{
		{"valid", Message{Room: "lobby", Author: "ann", Body: "hi", Time: "9:41"}, nil},
		{"empty author and time are fine", Message{Room: "lobby", Body: "hi"}, nil},
		{"missing body", Message{Room: "lobby", Author: "ann"}, ErrEmptyBody},
		{"missing room", Message{Body: "hi"}, ErrEmptyRoom},
		{"missing everything", Message{}, ErrEmptyRoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.msg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewRoomName(t *testing.T) {
	if got := NewRoomName("lobby"); got != "lobby" {
		t.Errorf("NewRoomName(lobby) = %q", got)
	}
	if got := NewRoomName(""); got != "" {
		t.Errorf("NewRoomName empty = %q, want empty (degenerate but legal)", got)
	}
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	if got := NewRoomName(string(long)); len(got) != MaxRoomNameLen {
		t.Errorf("NewRoomName overlong = %d chars, want %d", len(got), MaxRoomNameLen)
	}
}
