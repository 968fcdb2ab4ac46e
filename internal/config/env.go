package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/madeup/internal/logfields"
	"github.com/joho/godotenv"
)

// envFiles are loaded in order. Variables already set are never overridden,
// so .env.local wins over .env and the process environment wins over both.
var envFiles = []string{".env.local", ".env"}

// LoadEnv loads the .env files found in root. Missing files are skipped.
func LoadEnv(root string) error {
	for _, name := range envFiles {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
		slog.Debug("Loaded environment variables", logfields.File(path))
	}
	return nil
}
