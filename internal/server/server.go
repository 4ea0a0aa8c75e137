// Package server owns the process lifecycle: open the store, bind the
// listener, serve, and tear both down again.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/blogposts/backend/internal/config"
	"github.com/blogposts/backend/internal/handler"
	"github.com/blogposts/backend/internal/repository"
	"github.com/blogposts/backend/internal/service"
)

// Server is the handle returned by Start. Pass it to Shutdown.
type Server struct {
	store    repository.Store
	listener net.Listener
	http     *http.Server
	done     chan error
}

// Start opens the store, binds the listener and starts serving in the
// background. On any failure nothing is left open.
func Start(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, err := repository.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		if cerr := store.Close(ctx); cerr != nil {
			slog.Warn("close store after failed listen", "error", cerr)
		}
		return nil, fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	}

	s := Serve(store, ln, cfg.FrontendURL)
	slog.Info("server listening", "addr", s.Addr(), "store", cfg.StoreDriver)
	return s, nil
}

// Serve starts serving the blog API on ln using store.
func Serve(store repository.Store, ln net.Listener, frontendURL string) *Server {
	blogHandler := handler.NewBlogHandler(service.NewBlogService(store))
	h := handler.New(store, frontendURL)

	s := &Server{
		store:    store,
		listener: ln,
		http: &http.Server{
			Handler:      handler.NewRouter(h, blogHandler),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		done: make(chan error, 1),
	}
	go func() {
		err := s.http.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()
	return s
}

// Addr is the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections, waits for in-flight requests, then
// closes the store.
func Shutdown(ctx context.Context, s *Server) error {
	slog.Info("closing server")
	httpErr := s.http.Shutdown(ctx)
	if httpErr == nil {
		httpErr = <-s.done
	}
	storeErr := s.store.Close(ctx)
	return errors.Join(httpErr, storeErr)
}
