//go:build integration

package database

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/containers"
)

var testCfg *config.Config

func TestMain(m *testing.M) {
	os.Exit(runTests(m))
}

// runTests spins up a Postgres container and runs all the tests in this package
func runTests(m *testing.M) int {

	projectRoot, err := containers.GetProjectRoot()
	if err != nil {
		log.Fatal(err)
	}

	testCfg, err = containers.TestConfig(projectRoot)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := containers.SetupTestDB(ctx, testCfg, projectRoot)
	if err != nil {
		log.Fatal(err)
	}

	defer container.Terminate(context.Background())

	return m.Run()
}

func TestNew(t *testing.T) {

	invalidCfg := *testCfg
	invalidCfg.DBPort = -1

	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr bool
	}{
		{"nil config", nil, true},
		{"invalid port", &invalidCfg, true},
		{"valid config", testCfg, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("got error = %v, want error = %t", err, tt.wantErr)
			}

			if err != nil {
				if db != nil {
					t.Errorf("got %+v, want nil service", db)
				}
				return
			}

			t.Cleanup(db.Close)
		})
	}
}
