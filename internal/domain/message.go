// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"time"
)

var (
	ErrEmptyRoom = errors.New("room name empty")
	ErrEmptyBody = errors.New("message body empty")
)

// Message is a single chat message. Room, author, body and the display time
// are client-supplied and kept as-is; ID and CreatedAt are assigned by the
// history store at persistence time and stay zero until then.
type Message struct {
	ID        string
	Room      string
	Author    string
	Body      string
	Time      string
	CreatedAt time.Time
}

// Validate checks the fields a message must carry before it may be relayed
// or persisted. Author and display time are accepted as sent, even empty.
func (m Message) Validate() error {
	if m.Room == "" {
		return ErrEmptyRoom
	}
	if m.Body == "" {
		return ErrEmptyBody
	}
	return nil
}
