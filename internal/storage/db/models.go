package db

import (
	"database/sql"
	"time"
)

// User is a row of the users table.
type User struct {
	ID           uint64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash []byte
	Role         string
	PhoneNumber  sql.NullString
	CreateTime   time.Time
}

// Todo is a row of the todos table. OwnerID references the owning user.
type Todo struct {
	ID          uint64
	OwnerID     uint64
	Title       string
	Description string
	Priority    int64
	Complete    bool
	CreateTime  time.Time
	UpdateTime  time.Time
}
