package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bapung/basic-auth-check/pkg/auth"
)

func readUsersYAML(filePath string) ([]User, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not read YAML file: %w", err)
	}

	var usersYAML UsersYAML
	if err := yaml.Unmarshal(data, &usersYAML); err != nil {
		return nil, fmt.Errorf("could not parse YAML: %w", err)
	}
	return usersYAML.Users, nil
}

// LoadUsersFromYAML loads users from a YAML file, hashing plaintext passwords
func LoadUsersFromYAML(filePath string) ([]User, error) {
	users, err := readUsersYAML(filePath)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if err := ProcessCredentials(&users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// LoadPairsFromYAML loads the plaintext allow-list from a YAML file.
// Entries carrying only a password hash cannot be used as pairs and are rejected.
func LoadPairsFromYAML(filePath string) (auth.Pairs, error) {
	users, err := readUsersYAML(filePath)
	if err != nil {
		return nil, err
	}

	pairs := make(auth.Pairs, 0, len(users))
	for _, u := range users {
		if u.Password == "" && u.PasswordHash != "" {
			return nil, fmt.Errorf("user %q has no plaintext password", u.Username)
		}
		pairs = append(pairs, auth.Pair{Username: u.Username, Password: u.Password})
	}
	return pairs, nil
}
