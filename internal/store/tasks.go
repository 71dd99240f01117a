package store

import (
	"context"
	"time"
)

const taskColumns = `id, title, description, due_date, completed, contact_id, company_id, assignee_id, created_at, updated_at`

func scanTask(row interface{ Scan(dest ...any) error }) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Completed, &t.ContactID, &t.CompanyID, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (q *Queries) GetTaskByID(ctx context.Context, id int64) (Task, error) {
	row := q.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

type ListTasksParams struct {
	Completed *bool
	ContactID *int64
	CompanyID *int64
	Limit     int32
	Offset    int32
}

func (q *Queries) ListTasks(ctx context.Context, arg ListTasksParams) ([]Task, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE ($1::boolean IS NULL OR completed = $1)
		  AND ($2::bigint IS NULL OR contact_id = $2)
		  AND ($3::bigint IS NULL OR company_id = $3)
		ORDER BY due_date NULLS LAST, id
		LIMIT $4 OFFSET $5`,
		arg.Completed, arg.ContactID, arg.CompanyID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

type CreateTaskParams struct {
	Title       string
	Description *string
	DueDate     *time.Time
	ContactID   *int64
	CompanyID   *int64
	AssigneeID  *int64
}

func (q *Queries) CreateTask(ctx context.Context, arg CreateTaskParams) (Task, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tasks (title, description, due_date, contact_id, company_id, assignee_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+taskColumns,
		arg.Title, arg.Description, arg.DueDate, arg.ContactID, arg.CompanyID, arg.AssigneeID)
	return scanTask(row)
}

type UpdateTaskParams struct {
	ID          int64
	Title       string
	Description *string
	DueDate     *time.Time
	Completed   bool
	ContactID   *int64
	CompanyID   *int64
	AssigneeID  *int64
}

func (q *Queries) UpdateTask(ctx context.Context, arg UpdateTaskParams) (Task, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2,
		    description = $3,
		    due_date = $4,
		    completed = $5,
		    contact_id = $6,
		    company_id = $7,
		    assignee_id = $8,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns,
		arg.ID, arg.Title, arg.Description, arg.DueDate, arg.Completed, arg.ContactID, arg.CompanyID, arg.AssigneeID)
	return scanTask(row)
}

func (q *Queries) DeleteTask(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}
