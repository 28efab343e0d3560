package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bookmark is a pinned clipboard entry.
type Bookmark struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bookmarks returns every bookmark in the order it was added.
func (s *Store) Bookmarks(ctx context.Context) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, created_at FROM bookmarks ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	out := []Bookmark{}
	for rows.Next() {
		var (
			b       Bookmark
			created int64
		)
		if err := rows.Scan(&b.ID, &b.Content, &created); err != nil {
			return nil, fmt.Errorf("list bookmarks: scan: %w", err)
		}
		b.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return out, nil
}

// AddBookmark appends content as a new bookmark.
func (s *Store) AddBookmark(ctx context.Context, content string) (Bookmark, error) {
	var b Bookmark
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		b, err = s.insertBookmark(ctx, tx, content)
		return err
	})
	if err != nil {
		return Bookmark{}, fmt.Errorf("add bookmark: %w", err)
	}
	return b, nil
}

// RemoveBookmark deletes the bookmark at index in Bookmarks order.
func (s *Store) RemoveBookmark(ctx context.Context, index int) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := bookmarkIDAt(ctx, tx, index)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("remove bookmark %d: %w", index, err)
	}
	return nil
}

// ToggleBookmark removes the first bookmark holding content, or adds one
// when none exists. It reports whether a bookmark was added.
func (s *Store) ToggleBookmark(ctx context.Context, content string) (bool, error) {
	added := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM bookmarks WHERE content = ? ORDER BY position ASC LIMIT 1`, content).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := s.insertBookmark(ctx, tx, content); err != nil {
				return err
			}
			added = true
			return nil
		case err != nil:
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}
	return added, nil
}

// IsBookmarked reports whether any bookmark holds content.
func (s *Store) IsBookmarked(ctx context.Context, content string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookmarks WHERE content = ?`, content).Scan(&n); err != nil {
		return false, fmt.Errorf("lookup bookmark: %w", err)
	}
	return n > 0, nil
}

func (s *Store) insertBookmark(ctx context.Context, tx *sql.Tx, content string) (Bookmark, error) {
	var position int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM bookmarks`).Scan(&position); err != nil {
		return Bookmark{}, err
	}
	b := Bookmark{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: time.UnixMilli(s.now().UnixMilli()).UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bookmarks (id, content, position, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.Content, position, b.CreatedAt.UnixMilli()); err != nil {
		return Bookmark{}, err
	}
	return b, nil
}

func bookmarkIDAt(ctx context.Context, tx *sql.Tx, index int) (string, error) {
	if index < 0 {
		return "", ErrIndexOutOfRange
	}
	var id string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM bookmarks ORDER BY position ASC LIMIT 1 OFFSET ?`, index).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrIndexOutOfRange
	}
	return id, err
}
