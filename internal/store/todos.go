package store

import "context"

const todoColumns = `id, task_id, text, done, created_at, updated_at`

func scanTodo(row interface{ Scan(dest ...any) error }) (Todo, error) {
	var t Todo
	err := row.Scan(&t.ID, &t.TaskID, &t.Text, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (q *Queries) ListTodosByTask(ctx context.Context, taskID int64) ([]Todo, error) {
	rows, err := q.db.Query(ctx, `SELECT `+todoColumns+` FROM todos WHERE task_id = $1 ORDER BY id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

type CreateTodoParams struct {
	TaskID int64
	Text   string
}

func (q *Queries) CreateTodo(ctx context.Context, arg CreateTodoParams) (Todo, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO todos (task_id, text)
		VALUES ($1, $2)
		RETURNING `+todoColumns,
		arg.TaskID, arg.Text)
	return scanTodo(row)
}

type UpdateTodoParams struct {
	ID   int64
	Text string
	Done bool
}

func (q *Queries) UpdateTodo(ctx context.Context, arg UpdateTodoParams) (Todo, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE todos
		SET text = $2, done = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+todoColumns,
		arg.ID, arg.Text, arg.Done)
	return scanTodo(row)
}

func (q *Queries) DeleteTodo(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	return err
}
