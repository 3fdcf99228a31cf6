package signal

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

// Dispatcher implements core.Outbound over the session table. Each envelope
// is encoded once per fan-out, then handed to the per-connection send
// channels; a full channel drops the frame for that connection only.
type Dispatcher struct {
	Sessions *SessionTable
}

var _ core.Outbound = (*Dispatcher)(nil)

type wireMessage struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d *Dispatcher) History(sid core.SessionID, room domain.RoomName, msgs []domain.Message) {
	items := make([]wireMessage, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, wireMessage{
			ID:        m.ID,
			Room:      m.Room,
			Author:    m.Author,
			Message:   m.Body,
			Time:      m.Time,
			CreatedAt: m.CreatedAt,
		})
	}
	d.sendTo(sid, struct {
		Type     string        `json:"type"`
		Room     string        `json:"room"`
		Messages []wireMessage `json:"messages"`
	}{"load_messages", string(room), items})
}

// Relay fans the original payload out to the given members. The persisted
// identity is not included: recipients see exactly what the sender sent.
func (d *Dispatcher) Relay(to []core.SessionID, msg domain.Message) {
	frame, err := json.Marshal(struct {
		Type    string `json:"type"`
		Room    string `json:"room"`
		Author  string `json:"author"`
		Message string `json:"message"`
		Time    string `json:"time"`
	}{"receive_message", msg.Room, msg.Author, msg.Body, msg.Time})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("relay marshal")
		return
	}
	for _, sid := range to {
		conn, ok := d.Sessions.Get(sid)
		if !ok {
			continue
		}
		if err := conn.TrySend(core.Frame(frame)); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("relay frame dropped")
		}
	}
}

func (d *Dispatcher) Saved(sid core.SessionID, msg domain.Message) {
	d.sendTo(sid, struct {
		Type      string    `json:"type"`
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"createdAt"`
	}{"message_saved", msg.ID, msg.CreatedAt})
}

func (d *Dispatcher) Error(sid core.SessionID, reason string) {
	d.sendTo(sid, struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{"error", reason})
}

func (d *Dispatcher) sendTo(sid core.SessionID, v any) {
	conn, ok := d.Sessions.Get(sid)
	if !ok {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("no session for outbound frame")
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("outbound marshal")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("outbound frame dropped")
	}
}
