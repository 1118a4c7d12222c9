package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/secondbrain/secondbrain-go/internal/model"
)

const shareOwnerKey = "uq_share_links_user"

// ShareRepository handles share link persistence operations.
type ShareRepository struct {
	db *sql.DB
}

// NewShareRepository creates a new ShareRepository.
func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create inserts link in a single statement. The unique key on user_id makes
// this an atomic insert-if-absent: a second link for the same user fails
// with ErrShareOwnerExists, a reused hash with ErrShareHashCollision.
func (r *ShareRepository) Create(ctx context.Context, link *model.ShareLink) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO share_links (hash, user_id) VALUES (?, ?)`,
		link.Hash, link.UserID,
	)
	if err != nil {
		if key, dup := duplicateKey(err); dup {
			if key == shareOwnerKey {
				return ErrShareOwnerExists
			}
			return ErrShareHashCollision
		}
		return err
	}

	link.CreatedAt = time.Now().UTC()
	return nil
}

// GetByUser returns the share link owned by userID.
func (r *ShareRepository) GetByUser(ctx context.Context, userID int64) (*model.ShareLink, error) {
	return scanShareLink(r.db.QueryRowContext(ctx,
		`SELECT hash, user_id, created_at FROM share_links WHERE user_id = ?`, userID))
}

// GetByHash resolves a share link by its hash.
func (r *ShareRepository) GetByHash(ctx context.Context, hash string) (*model.ShareLink, error) {
	return scanShareLink(r.db.QueryRowContext(ctx,
		`SELECT hash, user_id, created_at FROM share_links WHERE hash = ?`, hash))
}

// DeleteByUser removes the share link owned by userID.
func (r *ShareRepository) DeleteByUser(ctx context.Context, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM share_links WHERE user_id = ?`, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrShareLinkNotFound
	}
	return nil
}

func scanShareLink(row *sql.Row) (*model.ShareLink, error) {
	link := &model.ShareLink{}
	if err := row.Scan(&link.Hash, &link.UserID, &link.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShareLinkNotFound
		}
		return nil, err
	}
	return link, nil
}
