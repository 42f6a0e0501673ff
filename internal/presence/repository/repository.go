package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	Presence "parley/internal/presence/model"
	"parley/pkg/logger"
)

type PresenceRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

func NewPresenceRepository(db *bun.DB, logger logger.Logger) *PresenceRepository {
	return &PresenceRepository{
		db:     db,
		logger: &logger,
	}
}

// RegisterSocket is a single upsert so is_online can never drift from the
// socket set under concurrent connects from multiple devices. The RETURNING
// clause reports whether this socket is the first one.
func (r *PresenceRepository) RegisterSocket(ctx context.Context, userID uuid.UUID, socketID string) (bool, error) {
	var wentOnline bool
	err := r.db.NewRaw(`
		INSERT INTO user_presences (user_id, socket_ids, is_online, updated_at)
		VALUES (?, ARRAY[?]::varchar[], TRUE, now())
		ON CONFLICT (user_id) DO UPDATE SET
			socket_ids = array_append(array_remove(user_presences.socket_ids, ?), ?),
			is_online  = TRUE,
			updated_at = now()
		RETURNING cardinality(socket_ids) = 1 AS went_online`,
		userID, socketID, socketID, socketID,
	).Scan(ctx, &wentOnline)
	if err != nil {
		return false, errors.Wrap(err, "presenceRepo.RegisterSocket.Scan: ")
	}
	return wentOnline, nil
}

// DeregisterSocket only touches rows that actually hold the socket, so a
// replayed disconnect cannot produce a second offline transition.
func (r *PresenceRepository) DeregisterSocket(ctx context.Context, userID uuid.UUID, socketID string) (bool, error) {
	var stillOnline bool
	err := r.db.NewRaw(`
		UPDATE user_presences SET
			socket_ids   = array_remove(socket_ids, ?),
			is_online    = cardinality(array_remove(socket_ids, ?)) > 0,
			last_seen_at = CASE WHEN cardinality(array_remove(socket_ids, ?)) = 0
				THEN now() ELSE last_seen_at END,
			updated_at   = now()
		WHERE user_id = ? AND ? = ANY(socket_ids)
		RETURNING is_online`,
		socketID, socketID, socketID, userID, socketID,
	).Scan(ctx, &stillOnline)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Socket was not registered; nothing transitioned.
			return false, nil
		}
		return false, errors.Wrap(err, "presenceRepo.DeregisterSocket.Scan: ")
	}
	return !stillOnline, nil
}

func (r *PresenceRepository) GetPresence(ctx context.Context, userID uuid.UUID) (*Presence.UserPresence, error) {
	p := new(Presence.UserPresence)
	err := r.db.NewSelect().Model(p).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Never connected, so an offline record.
			return &Presence.UserPresence{UserID: userID}, nil
		}
		return nil, errors.Wrap(err, "presenceRepo.GetPresence.Scan: ")
	}
	return p, nil
}

func (r *PresenceRepository) ListOnlineUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.NewSelect().
		Model((*Presence.UserPresence)(nil)).
		Column("user_id").
		Where("is_online = TRUE").
		Scan(ctx, &ids)
	if err != nil {
		return nil, errors.Wrap(err, "presenceRepo.ListOnlineUserIDs.Scan: ")
	}
	return ids, nil
}
