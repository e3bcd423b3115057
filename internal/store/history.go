package store

import (
	"fmt"

	"github.com/dukerupert/earnlearn/internal/model"
)

// HistoryStore is append-only: entries are never updated or deleted.
type HistoryStore struct {
	db DBTX
}

func NewHistoryStore(db DBTX) *HistoryStore {
	return &HistoryStore{db: db}
}

const historyCols = `id, child_id, type, description, amount, created_at`

func (s *HistoryStore) Append(e model.HistoryEntry) (*model.HistoryEntry, error) {
	if !e.Type.IsValid() {
		return nil, fmt.Errorf("append history: invalid type %q", e.Type)
	}
	result, err := s.db.Exec(
		`INSERT INTO history_entries (child_id, type, description, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ChildID, e.Type, e.Description, e.Amount.String(), e.CreatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert history entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id
	return &e, nil
}

// ListByChild returns a child's entries, newest first.
func (s *HistoryStore) ListByChild(childID int64, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT `+historyCols+` FROM history_entries WHERE child_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		childID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.ChildID, &e.Type, &e.Description, &e.Amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
