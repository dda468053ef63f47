package audit

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type record struct {
	ID            string `gorm:"primaryKey"`
	Actor         string
	Role          string
	Action        string
	ResourceType  string
	ResourceID    string
	Metadata      []byte
	PayloadDigest string
	IP            string
	UserAgent     string
	CreatedAt     time.Time
}

func (record) TableName() string { return "audit_logs" }

// Repository writes audit logs to the embedded database.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an audit repository, migrating its table.
func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("audit repo: nil db")
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Log writes an audit entry.
func (r *Repository) Log(ctx context.Context, entry Entry) error {
	if r == nil || r.db == nil {
		return errors.New("audit repo: nil db")
	}
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.PayloadDigest == "" {
		entry.PayloadDigest = DigestJSON(entry.Metadata)
	}

	rec := record{
		ID:            entry.ID,
		Actor:         entry.Actor,
		Role:          entry.Role,
		Action:        entry.Action,
		ResourceType:  entry.ResourceType,
		ResourceID:    entry.ResourceID,
		Metadata:      entry.Metadata,
		PayloadDigest: entry.PayloadDigest,
		IP:            entry.IP,
		UserAgent:     entry.UserAgent,
		CreatedAt:     entry.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}
