package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the graph database connection.
type Config struct {
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Neo4jURI:      os.Getenv("NEO4J_URI"),
		Neo4jUser:     os.Getenv("NEO4J_USER"),
		Neo4jPassword: os.Getenv("NEO4J_PASSWORD"),
	}
}

// LoadEnv loads environment variables from a .env file, searching up the
// directory tree.
func LoadEnv() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Not found is fine
	return nil
}
