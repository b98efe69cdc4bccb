package store

import (
	"fmt"

	"github.com/bapung/basic-auth-check/pkg/auth"
)

// User is a registered account allowed through the basic auth check
type User struct {
	ID           string `yaml:"id"`
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	PasswordSalt string `yaml:"password_salt"`

	// Not stored in DB, only used when loading from YAML or the admin API
	Password string `yaml:"password,omitempty"`
}

// ProcessCredentials ensures the password is hashed and the plaintext cleared
func ProcessCredentials(user *User) error {
	if user.Password == "" {
		return nil
	}

	if user.PasswordSalt == "" {
		salt, err := auth.GenerateSalt()
		if err != nil {
			return fmt.Errorf("user %q: %w", user.Username, err)
		}
		user.PasswordSalt = salt
	}
	user.PasswordHash = auth.HashCredential(user.Password, user.PasswordSalt)
	user.Password = ""
	return nil
}

// UsersYAML represents the structure of the YAML file containing users
type UsersYAML struct {
	Users []User `yaml:"users"`
}
