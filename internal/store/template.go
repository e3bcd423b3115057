package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/earnlearn/internal/model"
)

type TemplateStore struct {
	db DBTX
}

func NewTemplateStore(db DBTX) *TemplateStore {
	return &TemplateStore{db: db}
}

func scanTemplate(scanner interface{ Scan(...any) error }) (*model.RecurringTemplate, error) {
	var t model.RecurringTemplate
	var lastSpawned sql.NullTime

	err := scanner.Scan(
		&t.ID, &t.Name, &t.Description, &t.Points, &t.AssignedTo, &t.Frequency,
		&t.DueTime, &t.Active, &lastSpawned, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastSpawned.Valid {
		t.LastSpawned = lastSpawned.Time
	}
	return &t, nil
}

const templateCols = `id, name, description, points, assigned_to, frequency, due_time, active, last_spawned, created_at, updated_at`

func (s *TemplateStore) Create(t model.RecurringTemplate) (*model.RecurringTemplate, error) {
	result, err := s.db.Exec(
		`INSERT INTO recurring_templates (name, description, points, assigned_to, frequency, due_time, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.Description, t.Points, t.AssignedTo, t.Frequency, t.DueTime, t.Active,
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TemplateStore) GetByID(id int64) (*model.RecurringTemplate, error) {
	row := s.db.QueryRow(`SELECT `+templateCols+` FROM recurring_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (s *TemplateStore) List() ([]model.RecurringTemplate, error) {
	return s.list(`SELECT ` + templateCols + ` FROM recurring_templates ORDER BY id ASC`)
}

func (s *TemplateStore) ListActive() ([]model.RecurringTemplate, error) {
	return s.list(`SELECT ` + templateCols + ` FROM recurring_templates WHERE active = 1 ORDER BY id ASC`)
}

func (s *TemplateStore) list(query string) ([]model.RecurringTemplate, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []model.RecurringTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (s *TemplateStore) SetActive(id int64, active bool) error {
	_, err := s.db.Exec(
		`UPDATE recurring_templates SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set template active: %w", err)
	}
	return nil
}

func (s *TemplateStore) SetLastSpawned(id int64, at time.Time) error {
	_, err := s.db.Exec(
		`UPDATE recurring_templates SET last_spawned = ?, updated_at = ? WHERE id = ?`,
		at.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set template last spawned: %w", err)
	}
	return nil
}

func (s *TemplateStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM recurring_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
