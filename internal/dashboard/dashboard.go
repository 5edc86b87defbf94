// Package dashboard serves the cached catalog as an interactive page of
// charts, recomputed on every change to the genre and popularity filters.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ademuri/bandstats/internal/catalog"
	"github.com/ademuri/bandstats/internal/table"
)

//go:embed templates/*.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

const shutdownTimeout = 5 * time.Second

type Server struct {
	cachePath string
	log       *zap.Logger
	snapshot  atomic.Pointer[table.Snapshot]
	router    *mux.Router
}

// New loads the cache at cachePath and builds the table the charts are drawn
// from. A missing or corrupted cache gives an empty dashboard.
func New(cachePath string, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cachePath: cachePath,
		log:       log.Named("dashboard"),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/charts/{id}", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/api/meta", s.handleMeta).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Snapshot returns the table currently being served.
func (s *Server) Snapshot() *table.Snapshot {
	return s.snapshot.Load()
}

// Reload rereads the cache and swaps in a new table. Requests already in
// flight keep the table they started with.
func (s *Server) Reload() error {
	cache, err := catalog.Load(s.cachePath, s.log)
	if err != nil {
		return fmt.Errorf("loading cache: %w", err)
	}
	snapshot := table.NewSnapshot(cache)
	s.snapshot.Store(snapshot)
	s.log.Info("loaded cache",
		zap.String("path", s.cachePath),
		zap.Int("artists", len(cache)),
		zap.Int("rows", len(snapshot.Rows)))
	return nil
}

// Run listens on addr and serves until ctx is canceled. With watch set, the
// cache file is reloaded whenever it changes.
func (s *Server) Run(ctx context.Context, addr string, watch bool) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %q: %w", addr, err)
	}
	return s.Serve(ctx, l, watch)
}

// Serve is Run on an existing listener. It closes l.
func (s *Server) Serve(ctx context.Context, l net.Listener, watch bool) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("serving dashboard", zap.String("addr", "http://"+l.Addr().String()+"/"))
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		s.log.Info("dashboard stopped")
		return nil
	})
	if watch {
		g.Go(func() error {
			return s.watch(gctx)
		})
	}
	return g.Wait()
}

// watch reloads the cache each time it is written or replaced. The cache is
// saved by renaming a temp file over it, so the directory is watched rather
// than the file.
func (s *Server) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.cachePath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %q: %w", dir, err)
	}
	target := filepath.Clean(s.cachePath)
	s.log.Info("watching cache for changes", zap.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.log.Warn("reloading cache", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
			zap.Duration("took", time.Since(start)))
	})
}
