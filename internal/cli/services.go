package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/avitaltamir/vibeselect/internal/config"
	"github.com/avitaltamir/vibeselect/internal/expand"
	"github.com/avitaltamir/vibeselect/internal/lang"
	"github.com/avitaltamir/vibeselect/internal/lsp"
	"github.com/avitaltamir/vibeselect/internal/syntax"
	"github.com/avitaltamir/vibeselect/internal/textrange"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds stopping language servers on exit.
const shutdownTimeout = 5 * time.Second

// maxConcurrentQueries caps in-flight position lookups in resolveAll.
const maxConcurrentQueries = 8

// services wires the selection engine to its range sources.
type services struct {
	selector *syntax.Selector
	registry *lsp.Registry // nil when language servers are disabled
	provider *lsp.Provider
	engine   *expand.Engine
}

func newServices(cfg config.Config, root string, dial lsp.DialFunc) *services {
	s := &services{selector: syntax.NewSelector()}

	var provider expand.RangeProvider
	if !cfg.DisableLSP {
		var rootURI string
		if root != "" {
			rootURI = lsp.PathToURI(root)
		}
		s.registry = lsp.NewRegistry(cfg.EffectiveServers(), rootURI, dial)
		s.provider = lsp.NewProvider(s.registry)
		provider = s.provider
	}

	s.engine = expand.New(provider, syntax.NewFallback(s.selector), expand.Options{
		ProviderTimeout: cfg.ProviderTimeout(),
	})
	return s
}

func (s *services) close(ctx context.Context) error {
	defer s.selector.Close()
	if s.registry == nil {
		return nil
	}
	return s.registry.Shutdown(ctx)
}

// shutdown closes s, giving servers shutdownTimeout to exit.
func (s *services) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.close(ctx); err != nil {
		log.Warningf("shutdown: %v", err)
	}
}

// Source names where a chain came from.
const (
	sourceLSP    = "lsp"
	sourceSyntax = "syntax"
)

type chainResult struct {
	Point  textrange.Point
	Source string
	Chain  textrange.Chain
}

// resolveAll looks up the chain at every point concurrently. Language server
// chains are preferred; documents without a server use the syntax selector.
func (s *services) resolveAll(ctx context.Context, path, text string, points []textrange.Point, timeout time.Duration) ([]chainResult, error) {
	doc := expand.DocumentID(lsp.PathToURI(path))
	language := lang.Detect(path, text)

	useLSP := false
	if s.provider != nil {
		s.provider.Open(doc, language, text)
		defer s.provider.Close(context.Background(), doc)

		startCtx, cancel := context.WithTimeout(ctx, lsp.StartTimeout)
		client, err := s.provider.Prepare(startCtx, doc)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		useLSP = client != nil
	}
	log.Infof("%s: language %s, language server %t", path, language, useLSP)

	results := make([]chainResult, len(points))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)
	for i, pt := range points {
		g.Go(func() error {
			pos := pt.ZeroBased()
			if useLSP {
				qctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()
				chain, err := s.provider.SelectionRanges(qctx, doc, pos)
				if err != nil {
					return fmt.Errorf("%s: %w", pt, err)
				}
				if len(chain) > 0 {
					results[i] = chainResult{Point: pt, Source: sourceLSP, Chain: chain}
					return nil
				}
			}
			chain := s.selector.Chain(ctx, text, language, textrange.At(pos))
			results[i] = chainResult{Point: pt, Source: sourceSyntax, Chain: chain}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
