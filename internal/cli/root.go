// Package cli provides the vs command line: the editor and the scripting
// subcommands around the selection engine.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/avitaltamir/vibeselect/internal/app"
	"github.com/avitaltamir/vibeselect/internal/config"
	"github.com/avitaltamir/vibeselect/internal/lsp"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	logFile    string
	verbose    int
	timeout    time.Duration
	noLSP      bool

	dial lsp.DialFunc // nil spawns server processes
}

// NewRootCmd builds the vs command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "vs [file]",
		Short: "Grow and shrink selections through nested code scopes",
		Long: `vs opens a file in a terminal editor where the selection grows outward
through enclosing scopes (token, expression, statement, block, function,
file) and shrinks back along exactly the same path.

Scopes come from the language server configured for the file's language
(textDocument/selectionRange). Without one, a built-in tree-sitter or
text-structure selector is used.`,
		Version:      app.Version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runEditor(opts, path)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/vibeselect/config.json)")
	f.StringVar(&opts.logFile, "log-file", "", "append logs to this file")
	f.CountVarP(&opts.verbose, "verbose", "v", "raise log verbosity (repeatable)")
	f.DurationVar(&opts.timeout, "timeout", 0, "language server request timeout (default 1s)")
	f.BoolVar(&opts.noLSP, "no-lsp", false, "use only the built-in syntax selector")

	cmd.AddCommand(newRangesCmd(opts), newConfigCmd(opts))
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}

// load reads the config file and applies flag overrides. It also returns the
// file path, empty when no home directory is known.
func (o *options) load() (config.Config, string, error) {
	path := o.configPath
	if path == "" {
		if p, err := config.Path(); err == nil {
			path = p
		}
	}

	cfg := config.Default()
	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			cfg, err = config.LoadFrom(f)
			f.Close()
			if err != nil {
				return cfg, path, fmt.Errorf("%s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && o.configPath == "":
		default:
			return cfg, path, err
		}
	}

	if o.timeout > 0 {
		cfg.ProviderTimeoutMS = int(o.timeout / time.Millisecond)
	}
	if o.noLSP {
		cfg.DisableLSP = true
	}
	return cfg, path, nil
}

func (o *options) verbosity(cfg config.Config) int {
	return cfg.Verbosity() + o.verbose
}

func runEditor(opts *options, path string) error {
	cfg, cfgPath, err := opts.load()
	if err != nil {
		return err
	}
	configureLogging(opts.verbosity(cfg), opts.logFile, true)

	root, err := os.Getwd()
	if err != nil {
		return err
	}
	if path != "" {
		if path, err = filepath.Abs(path); err != nil {
			return err
		}
		root = lsp.FindRoot(path)
	}

	svc := newServices(cfg, root, opts.dial)
	defer svc.shutdown()

	appOpts := app.Options{
		Path:       path,
		Engine:     svc.engine,
		Config:     cfg,
		ConfigPath: cfgPath,
		Watch:      path != "",
	}
	if svc.provider != nil {
		appOpts.Documents = svc.provider
		appOpts.Servers = svc.registry
	}

	p := tea.NewProgram(app.New(appOpts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}
