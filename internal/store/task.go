package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/earnlearn/internal/model"
)

type TaskStore struct {
	db DBTX
}

func NewTaskStore(db DBTX) *TaskStore {
	return &TaskStore{db: db}
}

// TaskFilter narrows List. Zero fields are ignored.
type TaskFilter struct {
	AssignedTo *int64
	Status     model.TaskStatus
	TemplateID *int64
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var deadline, completedAt sql.NullTime
	var templateID sql.NullInt64

	err := scanner.Scan(
		&t.ID, &t.Name, &t.Description, &t.Points, &t.AssignedTo, &t.Status,
		&deadline, &t.DueTime, &templateID, &completedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deadline.Valid {
		t.Deadline = &deadline.Time
	}
	if templateID.Valid {
		t.TemplateID = &templateID.Int64
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}

const taskCols = `id, name, description, points, assigned_to, status, deadline, due_time, template_id, completed_at, created_at, updated_at`

func (s *TaskStore) Create(t model.Task) (*model.Task, error) {
	var deadline sql.NullTime
	if t.Deadline != nil {
		deadline = sql.NullTime{Time: t.Deadline.UTC(), Valid: true}
	}
	status := t.Status
	if status == "" {
		status = model.TaskPending
	}

	result, err := s.db.Exec(
		`INSERT INTO tasks (name, description, points, assigned_to, status, deadline, due_time, template_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.Description, t.Points, t.AssignedTo, status, deadline, t.DueTime, nullInt64(t.TemplateID),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) List(f TaskFilter) ([]model.Task, error) {
	var where []string
	var args []any
	if f.AssignedTo != nil {
		where = append(where, "assigned_to = ?")
		args = append(args, *f.AssignedTo)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.TemplateID != nil {
		where = append(where, "template_id = ?")
		args = append(args, *f.TemplateID)
	}

	query := `SELECT ` + taskCols + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// ListInstances returns every task spawned from a template.
func (s *TaskStore) ListInstances() ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskCols + ` FROM tasks WHERE template_id IS NOT NULL ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (s *TaskStore) CountByStatus(status model.TaskStatus) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE status = ?`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// UpdateStatus moves a task from one status to another. It returns
// ErrConflict when the task is no longer in the from status.
func (s *TaskStore) UpdateStatus(id int64, from, to model.TaskStatus, completedAt *time.Time) error {
	var done sql.NullTime
	if completedAt != nil {
		done = sql.NullTime{Time: completedAt.UTC(), Valid: true}
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET status = ?, completed_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, done, time.Now().UTC(), id, from,
	)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return expectOne(res)
}

// DeletePending removes a task that is still Pending.
func (s *TaskStore) DeletePending(id int64) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ? AND status = ?`, id, model.TaskPending)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOne(res)
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
