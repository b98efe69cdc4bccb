package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bapung/basic-auth-check/pkg/auth"
	"github.com/bapung/basic-auth-check/pkg/util"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already registered")
	ErrInvalidUser   = errors.New("user needs a username and a password")
)

// Store holds all registered users, cached in memory over a DBProvider
type Store struct {
	usersByID   map[string]User
	usersByName map[string]User
	db          DBProvider
	mu          sync.RWMutex
}

// NewStore connects the provider, ensures the schema and loads the cache
func NewStore(db DBProvider) (*Store, error) {
	if err := db.Connect(); err != nil {
		return nil, err
	}

	if err := db.InitializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := &Store{
		usersByID:   make(map[string]User),
		usersByName: make(map[string]User),
		db:          db,
	}

	if err := s.refreshCache(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load users from database: %w", err)
	}

	return s, nil
}

// refreshCache loads all users from the database into memory
func (s *Store) refreshCache() error {
	users, err := s.db.GetAllUsers()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.usersByID = make(map[string]User, len(users))
	s.usersByName = make(map[string]User, len(users))
	for _, u := range users {
		s.usersByID[u.ID] = u
		s.usersByName[u.Username] = u
	}
	return nil
}

// RegisterUser hashes any plaintext password and stores the user (both DB and cache).
// A missing ID is generated. The stored user is returned without plaintext.
func (s *Store) RegisterUser(user User) (User, error) {
	if user.Username == "" || (user.Password == "" && user.PasswordHash == "") {
		return User{}, ErrInvalidUser
	}
	if user.ID == "" {
		user.ID = util.GenerateUUID()
	}
	if err := ProcessCredentials(&user); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.usersByName[user.Username]; ok && existing.ID != user.ID {
		return User{}, ErrUsernameTaken
	}

	if err := s.db.UpsertUser(user); err != nil {
		return User{}, fmt.Errorf("failed to store user: %w", err)
	}

	if previous, ok := s.usersByID[user.ID]; ok {
		delete(s.usersByName, previous.Username)
	}
	s.usersByID[user.ID] = user
	s.usersByName[user.Username] = user

	return user, nil
}

// DeleteUser removes a user by ID
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByID[id]
	if !ok {
		return ErrUserNotFound
	}

	if err := s.db.DeleteUser(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	delete(s.usersByID, id)
	delete(s.usersByName, user.Username)
	return nil
}

// GetUserByID retrieves a user by ID from cache
func (s *Store) GetUserByID(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.usersByID[id]
	return user, ok
}

// GetUserByName retrieves a user by username from cache
func (s *Store) GetUserByName(username string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.usersByName[username]
	return user, ok
}

// GetAllUsers returns every cached user
func (s *Store) GetAllUsers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.usersByID))
	for _, u := range s.usersByID {
		users = append(users, u)
	}
	return users
}

// Len returns the number of registered users
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.usersByID)
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Predicate accepts credentials whose password hashes to the stored hash of the named user
func (s *Store) Predicate() auth.Predicate {
	return func(c auth.Credentials) bool {
		user, ok := s.GetUserByName(c.Name)
		if !ok {
			return false
		}
		return auth.CompareCredentials(c.Pass, user.PasswordHash, user.PasswordSalt)
	}
}
