// Package store persists room history in sqlite via gorm.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

// record is the persisted shape of a message. Kept apart from domain.Message
// so gorm tags stay out of the domain package.
type record struct {
	ID        string `gorm:"primaryKey"`
	Room      string `gorm:"index"`
	Author    string
	Body      string
	Time      string
	CreatedAt time.Time `gorm:"index"`
}

func (record) TableName() string { return "messages" }

type HistoryStore struct {
	db *gorm.DB
}

var _ core.History = (*HistoryStore)(nil)

// Open opens (or creates) the sqlite database at path and runs migrations.
func Open(path string) (*HistoryStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	return New(db)
}

// New wraps an already-open gorm handle. Tests use it with :memory:.
func New(db *gorm.DB) (*HistoryStore, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// Append persists msg, filling in its ID and CreatedAt.
func (s *HistoryStore) Append(ctx context.Context, msg *domain.Message) error {
	rec := record{
		ID:        uuid.NewString(),
		Room:      msg.Room,
		Author:    msg.Author,
		Body:      msg.Body,
		Time:      msg.Time,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	msg.ID = rec.ID
	msg.CreatedAt = rec.CreatedAt
	return nil
}

// ByRoom returns the room's messages oldest first.
func (s *HistoryStore) ByRoom(ctx context.Context, room domain.RoomName) ([]domain.Message, error) {
	var recs []record
	err := s.db.WithContext(ctx).
		Where("room = ?", string(room)).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("load history for %q: %w", room, err)
	}
	out := make([]domain.Message, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.Message{
			ID:        rec.ID,
			Room:      rec.Room,
			Author:    rec.Author,
			Body:      rec.Body,
			Time:      rec.Time,
			CreatedAt: rec.CreatedAt,
		})
	}
	return out, nil
}

// Purge drops the room's entire history.
func (s *HistoryStore) Purge(ctx context.Context, room domain.RoomName) (int64, error) {
	res := s.db.WithContext(ctx).Where("room = ?", string(room)).Delete(&record{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge history for %q: %w", room, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *HistoryStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
