package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/tallybook/tallybook/internal/api"
	"github.com/tallybook/tallybook/internal/domain"
	"github.com/tallybook/tallybook/internal/infra/changefeed"
	"github.com/tallybook/tallybook/internal/infra/observability"
	"github.com/tallybook/tallybook/internal/infra/sqlite"
)

// Daemon is the running credit-book service.
type Daemon struct {
	cfg    Config
	db     *sqlite.DB
	feed   *changefeed.Feed
	server *http.Server
}

// New opens the store and assembles the daemon. The change feed drives both
// the SSE endpoint and the mutation metrics.
func New(cfg Config) (*Daemon, error) {
	db, err := sqlite.Open(cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	feed := changefeed.New()
	db.SetOnChange(func(c domain.Change) {
		observability.ObserveChange(c)
		feed.Publish(c)
	})

	srv := api.NewServer(db, feed)
	if cfg.API.Metrics {
		srv.EnableMetrics()
	}

	return &Daemon{
		cfg:  cfg,
		db:   db,
		feed: feed,
		server: &http.Server{
			Addr:    cfg.Addr(),
			Handler: srv.Handler(),
		},
	}, nil
}

// Store exposes the daemon's store for CLI commands running in-process.
func (d *Daemon) Store() *sqlite.DB { return d.db }

// Run serves the API until ctx is cancelled, then shuts down cleanly.
func (d *Daemon) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[daemon] listening on %s", d.cfg.Addr())
		errCh <- d.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return d.db.Close()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		d.db.Close()
		return err
	}
}

// Close releases the daemon's resources without serving.
func (d *Daemon) Close() error { return d.db.Close() }
