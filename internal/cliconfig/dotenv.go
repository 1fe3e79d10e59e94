package cliconfig

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv loads environment variables from the given .env file, without
// overriding variables already present in the process environment. A
// missing file is not an error: credentials may come from the environment
// or the config file instead.
func LoadDotenv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}
