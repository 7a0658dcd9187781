//go:build integration

package rdb

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/containers"
)

var ( // Package global variables
	testCfg        *config.Config
	testRdb        *Service
	baseCtx, noCtx context.Context
)

// Sets ups a Redis container for all tests in this package to use
func TestMain(m *testing.M) {
	// Needs a separate function to be able to run the defers inside,
	// because they will not work with the os.Exit below.
	os.Exit(runTests(m))
}

// runTests performs a setup and runs all the tests in this package
func runTests(m *testing.M) int {

	projectRoot, err := containers.GetProjectRoot()
	if err != nil {
		log.Fatal(err)
	}

	testCfg, err = containers.TestConfig(projectRoot)
	if err != nil {
		log.Fatal(err)
	}

	baseCtx = context.Background()

	c, cancel := context.WithCancel(baseCtx)
	noCtx = c
	cancel()

	setupCtx, setupCancel := context.WithTimeout(baseCtx, 2*time.Minute)
	defer setupCancel()

	container, err := containers.SetupTestRedis(setupCtx, testCfg)
	if err != nil {
		log.Fatalf("failed to create Redis container; %v", err)
	}

	defer container.Terminate(baseCtx)

	testRdb, err = New(testCfg)
	if err != nil {
		log.Fatalf("failed to create Redis client; %v", err)
	}

	defer func() { testRdb.Client.Close() }()

	return m.Run()
}

func TestNew(t *testing.T) {

	invalidHostCfg := *testCfg
	invalidHostCfg.RedisHost = "::invalid"

	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr bool
	}{
		{"nil config", nil, true},
		{"invalid host", &invalidHostCfg, true},
		{"valid config", testCfg, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			rdb, err := New(tt.cfg)
			if err != nil {
				if !tt.wantErr {
					t.Errorf("got error = %v, want error = %t", err, tt.wantErr)
				}
				return
			}

			t.Cleanup(func() { rdb.Client.Close() })

			pingCtx, cancel := context.WithTimeout(baseCtx, 10*time.Second)
			t.Cleanup(cancel)

			err = rdb.Client.Ping(pingCtx).Err()
			if gotErr := err != nil; gotErr != tt.wantErr {
				t.Errorf("got error = %v, want error = %t", err, tt.wantErr)
			}
		})
	}
}

func TestPipeSet(t *testing.T) {

	tests := []struct {
		name    string
		ctx     context.Context
		pairs   []any
		wantErr bool
	}{
		{"odd arguments", baseCtx, []any{"a"}, true},
		{"non string key", baseCtx, []any{1, "a"}, true},
		{"cancelled context", noCtx, []any{"pipe_a", "1"}, true},
		{"valid pairs", baseCtx, []any{"pipe_b", "1", "pipe_c", "2"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testRdb.PipeSet(tt.ctx, time.Minute, tt.pairs...)
			if gotErr := err != nil; gotErr != tt.wantErr {
				t.Fatalf("got error = %v, want error = %t", err, tt.wantErr)
			}

			if tt.wantErr {
				return
			}

			for i := 0; i < len(tt.pairs); i += 2 {
				got, err := testRdb.Client.Get(baseCtx, tt.pairs[i].(string)).Result()
				if err != nil || got != tt.pairs[i+1] {
					t.Errorf("got %q (error = %v), want %q", got, err, tt.pairs[i+1])
				}
			}
		})
	}
}

func TestTouch(t *testing.T) {

	if err := testRdb.Client.Set(baseCtx, "touch_key", "v", time.Second).Err(); err != nil {
		t.Fatalf("failed to set key; %v", err)
	}

	if err := testRdb.Touch(baseCtx, time.Hour, "touch_key"); err != nil {
		t.Fatalf("got error = %v, want nil", err)
	}

	ttl, err := testRdb.Client.TTL(baseCtx, "touch_key").Result()
	if err != nil {
		t.Fatalf("failed to get TTL; %v", err)
	}

	if ttl < time.Minute {
		t.Errorf("got ttl = %v, want about an hour", ttl)
	}
}

func TestHealth(t *testing.T) {

	tests := []struct {
		name    string
		ctx     context.Context
		wantErr bool
	}{
		{"cancelled context", noCtx, true},
		{"valid result", baseCtx, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := testRdb.Health(tt.ctx)
			if err, gotErr := stats["error"]; gotErr != tt.wantErr {
				t.Errorf("got error = %v, want error = %t", err, tt.wantErr)
			}
		})
	}
}
