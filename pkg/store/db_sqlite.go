package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteProvider is a DBProvider implementation for SQLite
type SQLiteProvider struct {
	dbPath string
	db     *sql.DB
	mu     sync.Mutex
}

// NewSQLiteProvider creates a new SQLite database provider
func NewSQLiteProvider(dbPath string) *SQLiteProvider {
	return &SQLiteProvider{
		dbPath: dbPath,
	}
}

// Connect establishes a connection to the SQLite database
func (p *SQLiteProvider) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	db, err := sql.Open("sqlite3", p.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	// sqlite serializes writers anyway; one connection keeps :memory: databases coherent
	db.SetMaxOpenConns(1)

	p.db = db
	return nil
}

// InitializeSchema initializes the database schema for SQLite
func (p *SQLiteProvider) InitializeSchema() error {
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
func (p *SQLiteProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// GetAllUsers retrieves all users from the database
func (p *SQLiteProvider) GetAllUsers() ([]User, error) {
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

// UpsertUser inserts or replaces a user in the database
func (p *SQLiteProvider) UpsertUser(user User) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return ErrNotConnected
	}

	_, err := p.db.Exec(`INSERT OR REPLACE INTO users
					 (id, username, password_hash, password_salt)
					 VALUES (?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash, user.PasswordSalt)
	return err
}

// DeleteUser deletes a user by ID
func (p *SQLiteProvider) DeleteUser(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return ErrNotConnected
	}

	_, err := p.db.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}
