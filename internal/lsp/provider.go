package lsp

import (
	"context"
	"errors"
	"sync"

	"github.com/avitaltamir/vibeselect/internal/expand"
	"github.com/avitaltamir/vibeselect/internal/textrange"
)

type document struct {
	mu       sync.Mutex
	language string
	text     string
	client   *Client
	opened   bool
}

// Provider answers selection range queries for open documents through the
// registry's servers. It implements expand.RangeProvider.
type Provider struct {
	registry *Registry

	mu   sync.Mutex
	docs map[expand.DocumentID]*document
}

// NewProvider creates a provider that starts servers through registry.
func NewProvider(registry *Registry) *Provider {
	return &Provider{registry: registry, docs: make(map[expand.DocumentID]*document)}
}

// Open registers a document. The server is told about it lazily.
func (p *Provider) Open(doc expand.DocumentID, language, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.docs[doc] = &document{language: language, text: text}
}

// Update replaces a document's text. An opened document is closed on its
// server and reopened with the new text on the next query.
func (p *Provider) Update(ctx context.Context, doc expand.DocumentID, text string) {
	d := p.lookup(doc)
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
	if d.opened {
		if err := d.client.CloseDocument(ctx, string(doc)); err != nil {
			log.Debugf("close %s: %v", doc, err)
		}
		d.opened = false
	}
}

// Close forgets a document and sends didClose if its server had it open.
func (p *Provider) Close(ctx context.Context, doc expand.DocumentID) {
	p.mu.Lock()
	d := p.docs[doc]
	delete(p.docs, doc)
	p.mu.Unlock()
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.opened {
		if err := d.client.CloseDocument(ctx, string(doc)); err != nil {
			log.Debugf("close %s: %v", doc, err)
		}
		d.opened = false
	}
}

// Prepare starts the document's server and opens the document on it. It
// returns nil without a client when no usable server exists.
func (p *Provider) Prepare(ctx context.Context, doc expand.DocumentID) (*Client, error) {
	d := p.lookup(doc)
	if d == nil {
		return nil, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.opened {
		return d.client, nil
	}
	client, err := p.registry.Client(d.language)
	if err != nil {
		if !errors.Is(err, ErrNoServer) {
			log.Debugf("%s: %v", doc, err)
		}
		return nil, nil
	}
	if !client.SupportsSelectionRange() {
		return nil, nil
	}
	if err := client.Open(ctx, string(doc), d.language, d.text); err != nil {
		return nil, err
	}
	d.client = client
	d.opened = true
	return client, nil
}

// SelectionRanges implements expand.RangeProvider. Documents without a
// usable server produce an empty chain.
func (p *Provider) SelectionRanges(ctx context.Context, doc expand.DocumentID, pos textrange.Position) (textrange.Chain, error) {
	client, err := p.Prepare(ctx, doc)
	if err != nil || client == nil {
		return nil, err
	}
	return client.SelectionRanges(ctx, string(doc), pos)
}

func (p *Provider) lookup(doc expand.DocumentID) *document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.docs[doc]
}
