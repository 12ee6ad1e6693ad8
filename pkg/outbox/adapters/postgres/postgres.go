// Package postgres provides an outbox.Store backed by Postgres via GORM,
// durable enough to survive a producer restart between Add and a
// successful Producer.Send.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/brightside-go/brightside/pkg/errors"
	"github.com/brightside-go/brightside/pkg/wire"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Config holds the connection parameters for the outbox's Postgres store.
type Config struct {
	Host            string        `env:"OUTBOX_PG_HOST" env-default:"localhost"`
	Port            string        `env:"OUTBOX_PG_PORT" env-default:"5432"`
	User            string        `env:"OUTBOX_PG_USER" env-default:"postgres"`
	Password        string        `env:"OUTBOX_PG_PASSWORD"`
	Name            string        `env:"OUTBOX_PG_DB" env-default:"brightside"`
	SSLMode         string        `env:"OUTBOX_PG_SSLMODE" env-default:"disable"`
	MaxIdleConns    int           `env:"OUTBOX_PG_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int           `env:"OUTBOX_PG_MAX_OPEN_CONNS" env-default:"20"`
	ConnMaxLifetime time.Duration `env:"OUTBOX_PG_CONN_MAX_LIFETIME" env-default:"1h"`
}

// outboxMessage is the GORM model backing the outbox_messages table.
type outboxMessage struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Topic         string
	MessageType   string
	CorrelationID *uuid.UUID `gorm:"type:uuid"`
	ContentType   string
	BodyType      string
	Payload       []byte
	CreatedAt     time.Time
	SentAt        *time.Time
}

func (outboxMessage) TableName() string { return "outbox_messages" }

// Store is a Postgres-backed outbox.Store.
type Store struct {
	db *gorm.DB
}

// New opens a connection to Postgres and migrates the outbox_messages table.
func New(cfg Config) (*Store, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres outbox store")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB from outbox store")
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.AutoMigrate(&outboxMessage{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate outbox_messages table")
	}

	return &Store{db: db}, nil
}

// Add upserts msg into the outbox table, keyed by its header id, so a
// replayed Add after a crash is idempotent rather than erroring on a
// duplicate key.
func (s *Store) Add(ctx context.Context, msg *wire.Message) error {
	h := msg.Header()

	var correlationID *uuid.UUID
	if h.HasCorrelationID() {
		id := h.CorrelationID()
		correlationID = &id
	}

	row := outboxMessage{
		ID:            h.ID(),
		Topic:         h.Topic(),
		MessageType:   string(h.MessageType()),
		CorrelationID: correlationID,
		ContentType:   h.ContentType(),
		BodyType:      msg.Body().BodyType(),
		Payload:       msg.Body().Payload(),
		CreatedAt:     time.Now(),
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"topic", "message_type", "correlation_id", "content_type", "body_type", "payload"}),
	}).Create(&row)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to add message to outbox")
	}
	return nil
}

// GetMessage loads the message for id from the outbox table.
func (s *Store) GetMessage(ctx context.Context, id uuid.UUID) (*wire.Message, error) {
	var row outboxMessage
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, errors.New(errors.CodeNotFound, "no outbox message for id "+id.String(), err)
	}

	var correlationID uuid.UUID
	if row.CorrelationID != nil {
		correlationID = *row.CorrelationID
	}

	header := wire.NewHeader(row.ID, row.Topic, wire.MessageType(row.MessageType), correlationID, "", row.ContentType)
	body := wire.NewBody(row.Payload, row.BodyType)
	return wire.New(header, body), nil
}
