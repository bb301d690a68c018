package store

import (
	"context"
	"errors"

	"crossletters/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PostgresStore keeps each document as a row with a uuid version token and
// appends an event row for every successful write. The compare-and-swap is a
// guarded UPDATE: zero rows affected means the token went stale.
type PostgresStore struct {
	conn *gorm.DB
}

func NewPostgresStore(conn *gorm.DB) *PostgresStore {
	return &PostgresStore{conn: conn}
}

func (p *PostgresStore) Read(ctx context.Context, id string) ([]byte, string, error) {
	var record db.Document
	err := p.conn.WithContext(ctx).Where("key = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return []byte(record.Payload), record.Version, nil
}

func (p *PostgresStore) Write(ctx context.Context, id string, payload []byte, expectedToken, description string) (string, error) {
	newToken := uuid.NewString()

	if expectedToken == "" {
		record := db.Document{
			Key:     id,
			Version: newToken,
			Payload: datatypes.JSON(payload),
		}
		if err := p.conn.WithContext(ctx).Create(&record).Error; err != nil {
			if isUniqueViolation(err) {
				return "", ErrConflict
			}
			return "", err
		}
		p.appendEvent(ctx, id, "document_created", description)
		return newToken, nil
	}

	result := p.conn.WithContext(ctx).Model(&db.Document{}).
		Where("key = ? AND version = ?", id, expectedToken).
		Updates(map[string]any{
			"version": newToken,
			"payload": datatypes.JSON(payload),
		})
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := p.conn.WithContext(ctx).Model(&db.Document{}).Where("key = ?", id).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return "", ErrNotFound
		}
		return "", ErrConflict
	}
	p.appendEvent(ctx, id, "document_written", description)
	return newToken, nil
}

// appendEvent is best effort: the document write already succeeded and a
// failed audit row must not surface as a write failure.
func (p *PostgresStore) appendEvent(ctx context.Context, key, eventType, description string) {
	event := db.Event{
		DocumentKey: key,
		Type:        eventType,
		Description: description,
	}
	_ = p.conn.WithContext(ctx).Create(&event).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
