package lsp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// StartTimeout bounds spawning and initializing one server. It is detached
// from the caller's context so a short query deadline does not abort a slow
// server start.
const StartTimeout = 30 * time.Second

// DialFunc starts a client for a server configuration.
type DialFunc func(ctx context.Context, cfg ServerConfig, rootURI string) (*Client, error)

// Registry starts one client per language on first use and remembers
// languages whose server failed to start.
type Registry struct {
	servers map[string]ServerConfig
	rootURI string
	dial    DialFunc

	mu      sync.Mutex
	clients map[string]*Client
	failed  map[string]error
}

// NewRegistry returns a registry over servers. A nil dial spawns processes
// with Start.
func NewRegistry(servers map[string]ServerConfig, rootURI string, dial DialFunc) *Registry {
	if dial == nil {
		dial = Start
	}
	return &Registry{
		servers: servers,
		rootURI: rootURI,
		dial:    dial,
		clients: make(map[string]*Client),
		failed:  make(map[string]error),
	}
}

// Client returns the running client for language, starting it if needed.
func (r *Registry) Client(language string) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[language]; ok {
		return c, nil
	}
	if err, ok := r.failed[language]; ok {
		return nil, err
	}
	cfg, ok := r.servers[language]
	if !ok || cfg.Command == "" {
		return nil, fmt.Errorf("%w for %q", ErrNoServer, language)
	}

	ctx, cancel := context.WithTimeout(context.Background(), StartTimeout)
	defer cancel()
	c, err := r.dial(ctx, cfg, r.rootURI)
	if err != nil {
		err = fmt.Errorf("%s server: %w", language, err)
		log.Warningf("%v", err)
		r.failed[language] = err
		return nil, err
	}
	r.clients[language] = c
	return c, nil
}

// Shutdown stops every running client concurrently.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	clients := r.clients
	r.clients = make(map[string]*Client)
	r.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for language, c := range clients {
		g.Go(func() error {
			if err := c.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown %s server: %w", language, err)
			}
			return nil
		})
	}
	return g.Wait()
}
