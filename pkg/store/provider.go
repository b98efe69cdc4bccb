package store

import (
	"database/sql"
	"errors"
)

// ErrNotConnected is returned by providers used before Connect.
var ErrNotConnected = errors.New("database not connected")

// DBProvider abstracts the SQL backend holding users
type DBProvider interface {
	Connect() error
	InitializeSchema() error
	Close() error
	GetAllUsers() ([]User, error)
	UpsertUser(user User) error
	DeleteUser(id string) error
}

// scanUsers reads id, username, password_hash, password_salt rows
func scanUsers(rows *sql.Rows) ([]User, error) {
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.PasswordSalt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

const selectUsers = `SELECT id, username, password_hash, password_salt FROM users`
