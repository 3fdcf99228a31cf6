package signal

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

var validate = validator.New()

func (ctl *ChatWSController) handleJoin(
	ctx context.Context,
	sid core.SessionID,
	conn *wsChatConn,
	data []byte,
) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "bad_payload",
		})
		return
	}
	// The empty room name is degenerate but legal; no rejection here.
	room := domain.NewRoomName(p.Room)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(room)).Msg("join")
	ctl.Engine.Join(ctx, sid, room)
}

type sendPayload struct {
	Type    string `json:"type"`
	Room    string `json:"room" validate:"required"`
	Author  string `json:"author"`
	Message string `json:"message" validate:"required"`
	Time    string `json:"time"`
}

func (ctl *ChatWSController) handleSend(
	ctx context.Context,
	sid core.SessionID,
	conn *wsChatConn,
	data []byte,
) {
	var p sendPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad send payload")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "bad_payload",
		})
		return
	}
	if err := validate.Struct(&p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("send payload rejected")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "invalid message payload",
		})
		return
	}
	if !ctl.Limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("send rate limited")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "too many messages",
		})
		return
	}
	ctl.Engine.Send(ctx, sid, domain.Message{
		Room:   p.Room,
		Author: p.Author,
		Body:   p.Message,
		Time:   p.Time,
	})
}

func (ctl *ChatWSController) handleLeave(
	ctx context.Context,
	sid core.SessionID,
	conn *wsChatConn,
	data []byte,
) {
	type leavePayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave payload")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "bad_payload",
		})
		return
	}
	room := domain.NewRoomName(p.Room)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(room)).Msg("leave")
	ctl.Engine.Leave(ctx, sid, room)
	ctl.sendJSON(conn, map[string]any{
		"type": "left",
		"room": string(room),
	})
}

func (ctl *ChatWSController) handlePing(conn *wsChatConn) {
	ctl.sendJSON(conn, map[string]any{"type": "pong"})
}
