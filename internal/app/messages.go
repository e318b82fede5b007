package app

import (
	"github.com/avitaltamir/vibeselect/internal/components/editor"
	"github.com/avitaltamir/vibeselect/internal/expand"
	"github.com/fsnotify/fsnotify"
)

// Command names the selection command that produced a result.
type Command int

const (
	CommandExpand Command = iota
	CommandShrink
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandExpand:
		return "expand"
	case CommandShrink:
		return "shrink"
	default:
		return "unknown"
	}
}

// SelectionResultMsg carries a finished expand or shrink. Snapshot holds the
// selection the engine left behind.
type SelectionResultMsg struct {
	Command  Command
	Snapshot *editor.Snapshot
	Outcome  expand.Outcome
}

// ServerReadyMsg reports whether a language server is serving a document.
type ServerReadyMsg struct {
	Doc   expand.DocumentID
	Ready bool
	Err   error
}

// FileChangeMsg is sent when the watched file changes on disk.
type FileChangeMsg struct {
	Path string
	Op   fsnotify.Op
}

// CleanupDoneMsg is sent once engine state, documents and servers are
// released on quit.
type CleanupDoneMsg struct {
	Err error
}

type pruneTickMsg struct{}

type reloadMsg struct{}
