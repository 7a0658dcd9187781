package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// How long in-flight requests get to finish on shutdown
const drainTimeout = 5 * time.Second

// Run serves HTTP until ctx is done, then drains
// the in-flight requests and closes the DB and Redis connections.
func (a *App) Run(ctx context.Context) error {

	a.server.Handler = a.Routes()

	fmt.Printf("Server running on: http://%s\n", a.server.Addr)
	if a.domain != "" {
		fmt.Printf("Website available at: https://%s\n", a.domain)
	}

	serveErr := make(chan error, 1)
	go func() {
		// ErrServerClosed means Shutdown was called
		if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		a.close()
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down gracefully, press Ctrl+C again to force...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	a.close()
	log.Println("Graceful shutdown complete.")

	return nil
}

func (a *App) close() {
	log.Println("Closing Database and Redis connections...")
	if err := a.cleanup(); err != nil {
		log.Printf("Error during cleanup: %v", err)
	}
}
