// Package containers provides test container utilities
package containers

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/vlatan/reels-mixer/internal/config"
)

type Container interface {
	Terminate(ctx context.Context)
}

// GetProjectRoot returns the absolute path to the project root.
// It works by finding the directory of the caller of this func and navigating up
// until it finds the go.mod file.
func GetProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(1)
	if !ok {
		return "", errors.New("failed to get the caller information")
	}

	dir := filepath.Dir(filename)

	for {
		modFile := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(modFile); err == nil {
			return dir, nil // Found the project root!
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", errors.New("reached root without finding go.mod")
		}

		dir = parentDir
	}
}

// TestConfig loads the project's .env file if present
// and parses a worker config, which needs no session secrets.
func TestConfig(projectRoot string) (*config.Config, error) {

	// This is valid only for local test runs
	envPath := filepath.Join(projectRoot, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("failed to load .env file; %v", err)
	}

	if err := os.Setenv("TARGET", string(config.Worker)); err != nil {
		return nil, err
	}

	// Containers are created with these if the env has none
	defaults := map[string]string{
		"DB_DATABASE": "reels",
		"DB_USERNAME": "reels",
		"DB_PASSWORD": "reels",
	}

	for key, value := range defaults {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return nil, err
		}
	}

	return config.Parse()
}
