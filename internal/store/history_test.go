package store

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dkeye/Parley/internal/domain"
)

func setupTestStore(t *testing.T) *HistoryStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	s, err := New(db)
	if err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return s
}

func TestAppendAssignsIdentity(t *testing.T) {
	s := setupTestStore(t)
	msg := domain.Message{Room: "lobby", Author: "ann", Body: "hi", Time: "9:41"}

	if err := s.Append(context.Background(), &msg); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if msg.ID == "" {
		t.Error("Append left ID empty")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("Append left CreatedAt zero")
	}
}

func TestRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	sent := domain.Message{Room: "lobby", Author: "ann", Body: "hello there", Time: "9:41"}
	if err := s.Append(context.Background(), &sent); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := s.ByRoom(context.Background(), "lobby")
	if err != nil {
		t.Fatalf("ByRoom() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ByRoom returned %d messages, want 1", len(got))
	}
	m := got[0]
	if m.Room != sent.Room || m.Author != sent.Author || m.Body != sent.Body || m.Time != sent.Time {
		t.Errorf("round-trip mismatch: got %+v, sent %+v", m, sent)
	}
	if m.ID != sent.ID {
		t.Errorf("id = %q, want %q", m.ID, sent.ID)
	}
}

func TestByRoomOrderedByCreationTime(t *testing.T) {
	s := setupTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of order on purpose; retrieval must sort by created_at.
	for i, offset := range []time.Duration{2 * time.Second, 0, time.Second} {
		rec := record{
			ID:        string(rune('a' + i)),
			Room:      "lobby",
			Body:      string(rune('a' + i)),
			CreatedAt: base.Add(offset),
		}
		if err := s.db.Create(&rec).Error; err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	got, err := s.ByRoom(context.Background(), "lobby")
	if err != nil {
		t.Fatalf("ByRoom() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.Before(got[i-1].CreatedAt) {
			t.Fatalf("messages not ordered ascending: %v", got)
		}
	}
	if got[0].Body != "b" || got[1].Body != "c" || got[2].Body != "a" {
		t.Errorf("order = %q %q %q, want b c a", got[0].Body, got[1].Body, got[2].Body)
	}
}

func TestByRoomScoped(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	for _, m := range []domain.Message{
		{Room: "lobby", Body: "one"},
		{Room: "other", Body: "two"},
		{Room: "lobby", Body: "three"},
	} {
		if err := s.Append(ctx, &m); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := s.ByRoom(ctx, "lobby")
	if err != nil {
		t.Fatalf("ByRoom() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d messages for lobby, want 2", len(got))
	}
	for _, m := range got {
		if m.Room != "lobby" {
			t.Errorf("message from room %q leaked into lobby history", m.Room)
		}
	}

	empty, err := s.ByRoom(ctx, "never-used")
	if err != nil {
		t.Fatalf("ByRoom() error = %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("unknown room history = %v, want empty", empty)
	}
}

func TestPurge(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	for _, m := range []domain.Message{
		{Room: "lobby", Body: "one"},
		{Room: "lobby", Body: "two"},
		{Room: "other", Body: "keep"},
	} {
		if err := s.Append(ctx, &m); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	n, err := s.Purge(ctx, "lobby")
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Purge removed %d rows, want 2", n)
	}

	got, err := s.ByRoom(ctx, "lobby")
	if err != nil {
		t.Fatalf("ByRoom() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("history after purge = %v, want empty", got)
	}

	kept, err := s.ByRoom(ctx, "other")
	if err != nil {
		t.Fatalf("ByRoom() error = %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("other room lost messages in purge: %v", kept)
	}

	if n, err := s.Purge(ctx, "never-used"); err != nil || n != 0 {
		t.Fatalf("Purge(unknown) = (%d, %v), want (0, nil)", n, err)
	}
}
