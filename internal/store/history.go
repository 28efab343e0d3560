package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddHistoryItem records item as the newest clipboard entry. An existing
// identical entry moves to the front instead of being duplicated, and the
// history is trimmed to maxItems. Empty items are ignored. It reports
// whether the visible history changed.
func (s *Store) AddHistoryItem(ctx context.Context, item string, maxItems int) (bool, error) {
	if item == "" {
		return false, nil
	}
	changed := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var newest string
		err := tx.QueryRowContext(ctx,
			`SELECT content FROM clipboard_history ORDER BY seq DESC LIMIT 1`).Scan(&newest)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil && newest == item {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO clipboard_history (content, seq, copied_at)
			VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM clipboard_history), ?)
			ON CONFLICT(content) DO UPDATE SET seq = excluded.seq, copied_at = excluded.copied_at`,
			item, s.now().UnixMilli()); err != nil {
			return err
		}
		changed = true
		return trimHistory(ctx, tx, maxItems)
	})
	if err != nil {
		return false, fmt.Errorf("add history item: %w", err)
	}
	return changed, nil
}

// History returns clipboard entries newest first.
func (s *Store) History(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content FROM clipboard_history ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, fmt.Errorf("list history: scan: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return out, nil
}

// HistoryItem returns the entry at index in History order.
func (s *Store) HistoryItem(ctx context.Context, index int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("history item %d: %w", index, ErrIndexOutOfRange)
	}
	var item string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM clipboard_history ORDER BY seq DESC LIMIT 1 OFFSET ?`, index).Scan(&item)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("history item %d: %w", index, ErrIndexOutOfRange)
	}
	if err != nil {
		return "", fmt.Errorf("history item %d: %w", index, err)
	}
	return item, nil
}

// DeleteHistoryItem removes item and reports whether it was present.
func (s *Store) DeleteHistoryItem(ctx context.Context, item string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clipboard_history WHERE content = ?`, item)
	if err != nil {
		return false, fmt.Errorf("delete history item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete history item: %w", err)
	}
	return n > 0, nil
}

// TrimHistory keeps only the newest maxItems entries. It reports whether
// anything was removed.
func (s *Store) TrimHistory(ctx context.Context, maxItems int) (bool, error) {
	var before, after int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM clipboard_history`).Scan(&before); err != nil {
			return err
		}
		if err := trimHistory(ctx, tx, maxItems); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM clipboard_history`).Scan(&after)
	})
	if err != nil {
		return false, fmt.Errorf("trim history: %w", err)
	}
	return after < before, nil
}

func trimHistory(ctx context.Context, tx *sql.Tx, maxItems int) error {
	if maxItems < 1 {
		maxItems = 1
	}
	_, err := tx.ExecContext(ctx, `
		DELETE FROM clipboard_history WHERE content NOT IN (
			SELECT content FROM clipboard_history ORDER BY seq DESC LIMIT ?
		)`, maxItems)
	return err
}
