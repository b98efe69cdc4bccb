package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bapung/basic-auth-check/pkg/auth"
)

func main() {
	var (
		username  = flag.String("username", "", "Username to emit in the YAML snippet")
		plaintext = flag.String("plaintext", "", "The plaintext password to hash")
		salt      = flag.String("salt", "", "Salt to use (optional, will generate if not provided)")
	)

	flag.Parse()

	if *plaintext == "" {
		fmt.Println("Error: Plaintext password is required")
		fmt.Println("Usage: hash-generator -plaintext=YOUR_PASSWORD [-username=NAME] [-salt=OPTIONAL_SALT]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	saltValue := *salt
	if saltValue == "" {
		generated, err := auth.GenerateSalt()
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		saltValue = generated
		fmt.Printf("Generated salt: %s\n", saltValue)
	}

	hashValue := auth.HashCredential(*plaintext, saltValue)

	fmt.Println("\nYAML Configuration:")
	fmt.Println("users:")
	fmt.Printf("  - username: %q\n", *username)
	fmt.Printf("    password_hash: %q\n", hashValue)
	fmt.Printf("    password_salt: %q\n", saltValue)
}
