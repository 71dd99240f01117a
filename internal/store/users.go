package store

import "context"

const userColumns = `id, email, full_name, password_hash, role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY full_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type CreateUserParams struct {
	Email        string
	FullName     string
	PasswordHash string
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO users (email, full_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING `+userColumns,
		arg.Email, arg.FullName, arg.PasswordHash, arg.Role)
	return scanUser(row)
}

type UpdateUserParams struct {
	ID       int64
	FullName string
	Role     string
	IsActive bool
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE users
		SET full_name = $2, role = $3, is_active = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		arg.ID, arg.FullName, arg.Role, arg.IsActive)
	return scanUser(row)
}

func (q *Queries) DeactivateUser(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `UPDATE users SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	return err
}
