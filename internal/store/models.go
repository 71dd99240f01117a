package store

import "time"

type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Session struct {
	ID         int64
	UserID     int64
	TokenHash  string
	CsrfToken  string
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	LastSeenAt time.Time
	CreatedAt  time.Time
}

type SessionPrincipal struct {
	SessionID int64
	UserID    int64
	Email     string
	FullName  string
	Role      string
	CsrfToken string
	ExpiresAt time.Time
}

type Company struct {
	ID          int64
	Name        string
	Email       *string
	PhoneNumber *string
	Website     *string
	City        *string
	Country     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Contact struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       *string
	PhoneNumber *string
	City        *string
	Country     *string
	CompanyID   *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Task struct {
	ID          int64
	Title       string
	Description *string
	DueDate     *time.Time
	Completed   bool
	ContactID   *int64
	CompanyID   *int64
	AssigneeID  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Todo struct {
	ID        int64
	TaskID    int64
	Text      string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Note struct {
	ID        int64
	Body      string
	ContactID *int64
	CompanyID *int64
	AuthorID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Tag struct {
	ID    int64
	Name  string
	Color *string
}

type Event struct {
	ID        int64
	Title     string
	StartsAt  time.Time
	EndsAt    *time.Time
	Location  *string
	ContactID *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
