package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"parley/config"
	channelmodel "parley/internal/channel/model"
	dmmodel "parley/internal/dm/model"
	messagemodel "parley/internal/message/model"
	presencemodel "parley/internal/presence/model"
	usermodel "parley/internal/user/model"
)

func Connect(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Bun.DSN))
	sqlDB := sql.OpenDB(connector)
	db := bun.NewDB(sqlDB, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "database.Connect.Ping: ")
	}
	return db, nil
}

// CreateSchema bootstraps every table plus the constraints the repositories
// rely on for their atomic set semantics. Safe to run repeatedly.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	tables := []any{
		(*usermodel.User)(nil),
		(*channelmodel.Channel)(nil),
		(*channelmodel.ChannelMember)(nil),
		(*dmmodel.Conversation)(nil),
		(*messagemodel.Message)(nil),
		(*messagemodel.Attachment)(nil),
		(*presencemodel.UserPresence)(nil),
	}

	for _, t := range tables {
		if _, err := db.NewCreateTable().Model(t).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrapf(err, "database.CreateSchema: %T", t)
		}
	}

	ddl := []string{
		// Retried sends with the same (sender, key) collapse into one row.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_messages_sender_idempotency
			ON messages (sender_id, idempotency_key)
			WHERE idempotency_key IS NOT NULL`,

		// One conversation per participant pair, whatever the insert order.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_dm_pair
			ON conversations (least(user1_id, user2_id), greatest(user1_id, user2_id))`,

		// Exactly one destination per message.
		`ALTER TABLE messages DROP CONSTRAINT IF EXISTS messages_destination_check`,
		`ALTER TABLE messages ADD CONSTRAINT messages_destination_check
			CHECK ((channel_id IS NULL) <> (conversation_id IS NULL))`,

		`CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages (conversation_id)
			WHERE conversation_id IS NOT NULL`,
	}

	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "database.CreateSchema.DDL: ")
		}
	}
	return nil
}
