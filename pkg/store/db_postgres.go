package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/lib/pq"
)

// PostgresProvider is a DBProvider implementation for PostgreSQL
type PostgresProvider struct {
	connStr string
	db      *sql.DB
	mu      sync.Mutex
}

// NewPostgresProvider creates a new PostgreSQL database provider
func NewPostgresProvider(connStr string) *PostgresProvider {
	return &PostgresProvider{
		connStr: connStr,
	}
}

// Connect establishes a connection to the PostgreSQL database
func (p *PostgresProvider) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	db, err := sql.Open("postgres", p.connStr)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	p.db = db
	return nil
}

// InitializeSchema initializes the database schema for PostgreSQL
func (p *PostgresProvider) InitializeSchema() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return ErrNotConnected
	}

	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			password_salt TEXT NOT NULL
		);
	`)
	return err
}

// Close closes the database connection
func (p *PostgresProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// GetAllUsers retrieves all users from the database
func (p *PostgresProvider) GetAllUsers() ([]User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil, ErrNotConnected
	}

	rows, err := p.db.Query(selectUsers)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

// UpsertUser inserts or updates a user in the database
func (p *PostgresProvider) UpsertUser(user User) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return ErrNotConnected
	}

	_, err := p.db.Exec(`
		INSERT INTO users
		(id, username, password_hash, password_salt)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			username = $2,
			password_hash = $3,
			password_salt = $4
	`,
		user.ID, user.Username, user.PasswordHash, user.PasswordSalt)
	return err
}

// DeleteUser deletes a user by ID
func (p *PostgresProvider) DeleteUser(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return ErrNotConnected
	}

	_, err := p.db.Exec("DELETE FROM users WHERE id = $1", id)
	return err
}
