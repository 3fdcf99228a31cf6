package signal

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
)

// SessionTable binds live connections to their session ids. It is the only
// place a SessionID resolves back to a transport endpoint.
type SessionTable struct {
	mu      sync.RWMutex
	entries map[core.SessionID]core.SignalConnection
}

func NewSessionTable() *SessionTable {
	return &SessionTable{entries: make(map[core.SessionID]core.SignalConnection)}
}

func (t *SessionTable) Bind(sid core.SessionID, conn core.SignalConnection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[sid] = conn
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("bound session")
}

func (t *SessionTable) Get(sid core.SessionID) (core.SignalConnection, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	conn, ok := t.entries[sid]
	return conn, ok
}

func (t *SessionTable) Unbind(sid core.SessionID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, sid)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("unbind session")
}

func (t *SessionTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
