// Package lsp resolves selection ranges through language servers speaking
// the Language Server Protocol over stdio.
package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync/atomic"

	"github.com/avitaltamir/vibeselect/internal/textrange"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var log = commonlog.GetLogger("vibeselect.lsp")

var (
	// ErrNoServer is returned when no server is configured for a language.
	ErrNoServer = errors.New("no language server configured")
	// ErrClosed is returned by a client after Shutdown.
	ErrClosed = errors.New("language server client closed")
)

// maxChainDepth bounds how many parents are followed when flattening a
// server response.
const maxChainDepth = 256

// Client is a connection to one language server.
type Client struct {
	conn     *jsonrpc2.Conn
	caps     protocol.ServerCapabilities
	closed   atomic.Bool
	stopping atomic.Bool

	wait func() error
	kill func() error
}

// Start spawns the server described by cfg and performs the initialize
// handshake over its stdio.
func Start(ctx context.Context, cfg ServerConfig, rootURI string) (*Client, error) {
	if cfg.Command == "" {
		return nil, ErrNoServer
	}
	cmd := exec.Command(cfg.Command, cfg.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		_ = stdin.Close()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		_ = stdout.Close()
		return nil, fmt.Errorf("start %s: %w", cfg.Command, err)
	}
	log.Infof("started %s (pid %d)", cfg.Command, cmd.Process.Pid)

	c, err := NewClient(ctx, &stdio{ReadCloser: stdout, WriteCloser: stdin}, rootURI)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, fmt.Errorf("initialize %s: %w", cfg.Command, err)
	}
	c.wait = cmd.Wait
	c.kill = cmd.Process.Kill
	return c, nil
}

// NewClient runs the initialize handshake over an established stream.
func NewClient(ctx context.Context, rwc io.ReadWriteCloser, rootURI string) (*Client, error) {
	c := &Client{}
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	c.conn = jsonrpc2.NewConn(context.Background(), stream,
		jsonrpc2.HandlerWithError(c.handle), jsonrpc2.SetLogger(rpcLogger{}))

	pid := protocol.Integer(os.Getpid())
	params := protocol.InitializeParams{
		ProcessID: &pid,
		Capabilities: protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				SelectionRange: &protocol.SelectionRangeClientCapabilities{},
			},
		},
	}
	if rootURI != "" {
		params.RootURI = &rootURI
	}

	var result protocol.InitializeResult
	if err := c.conn.Call(ctx, protocol.MethodInitialize, params, &result); err != nil {
		_ = c.conn.Close()
		return nil, fmt.Errorf("initialize: %w", err)
	}
	c.caps = result.Capabilities

	if err := c.conn.Notify(ctx, protocol.MethodInitialized, protocol.InitializedParams{}); err != nil {
		_ = c.conn.Close()
		return nil, fmt.Errorf("initialized: %w", err)
	}
	return c, nil
}

// SupportsSelectionRange reports whether the server advertised
// textDocument/selectionRange.
func (c *Client) SupportsSelectionRange() bool {
	switch v := c.caps.SelectionRangeProvider.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// Open sends textDocument/didOpen.
func (c *Client) Open(ctx context.Context, uri, languageID, text string) error {
	return c.notify(ctx, protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: languageID,
			Version:    1,
			Text:       text,
		},
	})
}

// CloseDocument sends textDocument/didClose.
func (c *Client) CloseDocument(ctx context.Context, uri string) error {
	return c.notify(ctx, protocol.MethodTextDocumentDidClose, protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
}

// SelectionRanges asks for the selection ranges at one position and returns
// them innermost first.
func (c *Client) SelectionRanges(ctx context.Context, uri string, pos textrange.Position) (textrange.Chain, error) {
	params := protocol.SelectionRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Positions:    []protocol.Position{toProtocolPosition(pos)},
	}
	var result []protocol.SelectionRange
	if err := c.call(ctx, protocol.MethodTextDocumentSelectionRange, params, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}
	return flatten(&result[0]), nil
}

// Shutdown sends shutdown and exit, closes the connection and waits for the
// server process. The process is killed if ctx ends first.
func (c *Client) Shutdown(ctx context.Context) error {
	if !c.stopping.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.call(ctx, protocol.MethodShutdown, nil, nil); err != nil {
		log.Debugf("shutdown: %v", err)
	}
	if err := c.notify(ctx, protocol.MethodExit, nil); err != nil {
		log.Debugf("exit: %v", err)
	}
	c.closed.Store(true)
	if err := c.conn.Close(); err != nil && !errors.Is(err, jsonrpc2.ErrClosed) {
		log.Debugf("close connection: %v", err)
	}
	if c.wait == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- c.wait() }()
	select {
	case err := <-done:
		if err != nil {
			log.Debugf("server exited: %v", err)
		}
		return nil
	case <-ctx.Done():
		_ = c.kill()
		<-done
		return ctx.Err()
	}
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.conn.Call(ctx, method, params, result); err != nil {
		if errors.Is(err, jsonrpc2.ErrClosed) {
			return ErrClosed
		}
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (c *Client) notify(ctx context.Context, method string, params any) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.conn.Notify(ctx, method, params); err != nil {
		if errors.Is(err, jsonrpc2.ErrClosed) {
			return ErrClosed
		}
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// handle answers server-initiated traffic. Requests get null results, except
// workspace/configuration which expects one entry per item.
func (c *Client) handle(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	log.Debugf("server sent %s", req.Method)
	if req.Method == protocol.ServerWorkspaceConfiguration && req.Params != nil {
		var params protocol.ConfigurationParams
		if err := json.Unmarshal(*req.Params, &params); err == nil {
			return make([]any, len(params.Items)), nil
		}
	}
	return nil, nil
}

func flatten(sr *protocol.SelectionRange) textrange.Chain {
	var chain textrange.Chain
	for depth := 0; sr != nil && depth < maxChainDepth; depth++ {
		chain = append(chain, fromProtocolRange(sr.Range))
		sr = sr.Parent
	}
	return chain
}

func toProtocolPosition(p textrange.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(max(p.Line, 0)),
		Character: protocol.UInteger(max(p.Character, 0)),
	}
}

func fromProtocolRange(r protocol.Range) textrange.Range {
	return textrange.NewRange(int(r.Start.Line), int(r.Start.Character), int(r.End.Line), int(r.End.Character))
}

// stdio joins a server's stdout and stdin into one stream. Close only closes
// stdin; the process owns stdout until Wait.
type stdio struct {
	io.ReadCloser
	io.WriteCloser
}

func (s *stdio) Close() error {
	return s.WriteCloser.Close()
}

// rpcLogger routes jsonrpc2 diagnostics into commonlog.
type rpcLogger struct{}

func (rpcLogger) Printf(format string, v ...any) {
	log.Debugf(format, v...)
}
