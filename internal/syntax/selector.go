// Package syntax builds selection-range chains locally, from a tree-sitter
// parse when a grammar is bundled for the document's language and from plain
// text structure otherwise. It backs the native expand and shrink used when
// no language server can answer.
package syntax

import (
	"context"
	"sync"

	"github.com/avitaltamir/vibeselect/internal/textrange"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("vibeselect.syntax")

// Selector computes selection chains. Parsers are reused per language and are
// not safe for concurrent use, so parsing is serialized.
type Selector struct {
	mu      sync.Mutex
	parsers map[string]*sitter.Parser
}

// NewSelector creates a selector. Call Close to release its parsers.
func NewSelector() *Selector {
	return &Selector{parsers: make(map[string]*sitter.Parser)}
}

// Chain returns the ranges enclosing sel, innermost first, ending with the
// whole document.
func (s *Selector) Chain(ctx context.Context, text, language string, sel textrange.Range) textrange.Chain {
	d := newDocument(text)
	sel = d.clampRange(sel.Normalized())

	chain := s.treeChain(ctx, d, language, sel)
	if len(chain) == 0 {
		return textualChain(d, sel)
	}
	if whole := d.whole(); whole.StrictlyContains(chain[len(chain)-1]) {
		chain = append(chain, whole)
	}
	return chain
}

func (s *Selector) treeChain(ctx context.Context, d *document, language string, sel textrange.Range) textrange.Chain {
	grammar, ok := grammars[language]
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parser, ok := s.parsers[language]
	if !ok {
		parser = sitter.NewParser()
		parser.SetLanguage(grammar())
		s.parsers[language] = parser
	}

	tree, err := parser.ParseCtx(ctx, nil, []byte(d.text))
	if err != nil {
		log.Warningf("parse %s: %v", language, err)
		return nil
	}
	defer tree.Close()

	node := tree.RootNode().NamedDescendantForPointRange(d.point(sel.Start), d.point(sel.End))

	var chain textrange.Chain
	for ; node != nil; node = node.Parent() {
		r := textrange.Range{Start: d.fromPoint(node.StartPoint()), End: d.fromPoint(node.EndPoint())}
		if !r.Contains(sel) {
			continue
		}
		if n := len(chain); n > 0 && chain[n-1] == r {
			continue
		}
		chain = append(chain, r)
	}
	return chain
}

// Close releases the cached parsers.
func (s *Selector) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for language, parser := range s.parsers {
		parser.Close()
		delete(s.parsers, language)
	}
}
