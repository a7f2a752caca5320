package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taskboardhq/taskboard/internal/model"
)

const taskColumns = `id, user_id, title, description, status, priority, deadline, "order", created_at, updated_at`

type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTask(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		ORDER BY "order" ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

func (r *PostgresTaskRepository) MaxOrder(ctx context.Context, ownerID string) (int, bool, error) {
	query := `SELECT "order" FROM tasks WHERE user_id = $1 ORDER BY "order" DESC LIMIT 1`

	var max int
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&max)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get max order: %w", err)
	}
	return max, true, nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		INSERT INTO tasks (id, user_id, title, description, status, priority, deadline, "order")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description,
		task.Status, task.Priority, deadlineParam(task.Deadline), task.Order,
	)

	return scanTask(row)
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, ownerID, taskID string) (model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND user_id = $2`

	row := r.db.QueryRowContext(ctx, query, taskID, ownerID)
	return scanTask(row)
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
		    deadline = $5, "order" = $6, updated_at = now()
		WHERE id = $7 AND user_id = $8
		RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority,
		deadlineParam(task.Deadline), task.Order, task.ID, task.UserID,
	)

	return scanTask(row)
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, ownerID, taskID string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// Reorder rewrites order values inside one transaction so a concurrent
// reorder for the same owner cannot interleave mid-sequence.
func (r *PostgresTaskRepository) Reorder(ctx context.Context, ownerID string, orderedIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reorder: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE tasks SET "order" = $1, updated_at = now() WHERE id = $2 AND user_id = $3`
	for i, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx, query, i, id, ownerID); err != nil {
			return fmt.Errorf("failed to reorder task %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTask(row scannable) (model.Task, error) {
	var t model.Task
	var deadline sql.NullTime
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &deadline, &t.Order,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}
	if deadline.Valid {
		d := deadline.Time.Format("2006-01-02")
		t.Deadline = &d
	}
	return t, nil
}

// deadlineParam converts the YYYY-MM-DD string into a DATE parameter,
// keeping NULL for tasks without a deadline.
func deadlineParam(deadline *string) any {
	if deadline == nil {
		return nil
	}
	if d, err := time.Parse("2006-01-02", *deadline); err == nil {
		return d
	}
	return *deadline
}

// ensure compile-time interface compliance
var _ TaskRepository = (*PostgresTaskRepository)(nil)
