package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/secondbrain/secondbrain-go/internal/model"
)

// ContentRepository handles content and tag persistence operations.
type ContentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Create inserts content and its tags in one transaction and sets the
// generated ID on content.
func (r *ContentRepository) Create(ctx context.Context, content *model.Content) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO contents (user_id, title, body, type, is_public) VALUES (?, ?, ?, ?, ?)`,
		content.UserID, content.Title, content.Body, string(content.Type), content.IsPublic,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	if len(content.Tags) > 0 {
		query := `INSERT INTO tags (name, content_id) VALUES ` + tagValues(len(content.Tags))
		args := make([]any, 0, 2*len(content.Tags))
		for _, name := range content.Tags {
			args = append(args, name, id)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	content.ID = id
	content.CreatedAt = time.Now().UTC()
	return nil
}

// ListByUser returns a user's content newest first, each with its tag names.
// With publicOnly set only items marked public are returned.
func (r *ContentRepository) ListByUser(ctx context.Context, userID int64, publicOnly bool) ([]model.Content, error) {
	query := `SELECT id, user_id, title, body, type, is_public, created_at FROM contents WHERE user_id = ?`
	if publicOnly {
		query += ` AND is_public = TRUE`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contents := []model.Content{}
	for rows.Next() {
		var c model.Content
		var typ string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Body, &typ, &c.IsPublic, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Type = model.ContentType(typ)
		c.Tags = []string{}
		contents = append(contents, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, contents); err != nil {
		return nil, err
	}
	return contents, nil
}

// attachTags batch-fetches tags for contents and groups them by content id.
func (r *ContentRepository) attachTags(ctx context.Context, contents []model.Content) error {
	if len(contents) == 0 {
		return nil
	}

	index := make(map[int64]int, len(contents))
	args := make([]any, len(contents))
	for i, c := range contents {
		index[c.ID] = i
		args[i] = c.ID
	}

	query := `SELECT content_id, name FROM tags WHERE content_id IN (` + placeholders(len(args)) + `) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var contentID int64
		var name string
		if err := rows.Scan(&contentID, &name); err != nil {
			return err
		}
		if i, ok := index[contentID]; ok {
			contents[i].Tags = append(contents[i].Tags, name)
		}
	}
	return rows.Err()
}

// Delete removes a content row and its tags. Tags go first; the content is
// matched on (id, user_id) so other users' rows are never touched.
func (r *ContentRepository) Delete(ctx context.Context, userID, contentID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockOwned(ctx, tx, userID, contentID, nil); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE content_id = ?`, contentID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM contents WHERE id = ? AND user_id = ?`, contentID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrContentNotFound
	}

	return tx.Commit()
}

// SetVisibility updates is_public on a row owned by userID. A nil isPublic
// flips the stored value. It returns the value now stored.
func (r *ContentRepository) SetVisibility(ctx context.Context, userID, contentID int64, isPublic *bool) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var current bool
	if err := lockOwned(ctx, tx, userID, contentID, &current); err != nil {
		return false, err
	}

	next := !current
	if isPublic != nil {
		next = *isPublic
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE contents SET is_public = ? WHERE id = ? AND user_id = ?`,
		next, contentID, userID,
	); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return next, nil
}

// Counts returns total, public and private counts for userID.
func (r *ContentRepository) Counts(ctx context.Context, userID int64) (model.ContentCounts, error) {
	var counts model.ContentCounts

	queries := []struct {
		sql  string
		dest *int64
	}{
		{`SELECT COUNT(*) FROM contents WHERE user_id = ?`, &counts.Total},
		{`SELECT COUNT(*) FROM contents WHERE user_id = ? AND is_public = TRUE`, &counts.Public},
		{`SELECT COUNT(*) FROM contents WHERE user_id = ? AND is_public = FALSE`, &counts.Private},
	}
	for _, q := range queries {
		if err := r.db.QueryRowContext(ctx, q.sql, userID).Scan(q.dest); err != nil {
			return model.ContentCounts{}, err
		}
	}

	return counts, nil
}

// lockOwned locks the content row matching (contentID, userID) for the rest
// of tx, optionally reading its visibility.
func lockOwned(ctx context.Context, tx *sql.Tx, userID, contentID int64, isPublic *bool) error {
	var dummy bool
	if isPublic == nil {
		isPublic = &dummy
	}
	err := tx.QueryRowContext(ctx,
		`SELECT is_public FROM contents WHERE id = ? AND user_id = ? FOR UPDATE`,
		contentID, userID,
	).Scan(isPublic)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrContentNotFound
	}
	return err
}

func tagValues(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("(?, ?), ", n-1) + "(?, ?)"
}
