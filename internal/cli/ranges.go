package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/avitaltamir/vibeselect/internal/lsp"
	"github.com/avitaltamir/vibeselect/internal/textrange"
	"github.com/spf13/cobra"
)

func newRangesCmd(opts *options) *cobra.Command {
	var useSyntax, asJSON bool

	cmd := &cobra.Command{
		Use:   "ranges FILE LINE:COL...",
		Short: "Print the selection range chain at positions in a file",
		Long: `Print, for each one-based LINE:COL position, the chain of ranges an
expand would walk through, innermost first. Columns count UTF-16 code units.

The chain comes from the file's language server, or from the built-in
syntax selector with --syntax or when no server is configured.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			configureLogging(opts.verbosity(cfg), opts.logFile, false)

			path := args[0]
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			text := string(content)
			points, err := parsePoints(args[1:], strings.Count(text, "\n")+1)
			if err != nil {
				return err
			}

			if useSyntax {
				cfg.DisableLSP = true
			}
			svc := newServices(cfg, lsp.FindRoot(path), opts.dial)
			defer svc.shutdown()

			results, err := svc.resolveAll(cmd.Context(), path, text, points, cfg.ProviderTimeout())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			writeText(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useSyntax, "syntax", false, "use the built-in syntax selector")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// parsePoints parses one-based LINE:COL arguments for a document of lines
// lines.
func parsePoints(args []string, lines int) ([]textrange.Point, error) {
	points := make([]textrange.Point, 0, len(args))
	for _, arg := range args {
		p, err := parsePoint(arg)
		if err != nil {
			return nil, err
		}
		if p.Line > lines {
			return nil, fmt.Errorf("position %s: line out of range (document has %d lines)", arg, lines)
		}
		points = append(points, p)
	}
	return points, nil
}

func parsePoint(s string) (textrange.Point, error) {
	line, col, ok := strings.Cut(s, ":")
	if !ok {
		return textrange.Point{}, fmt.Errorf("position %q: want LINE:COL", s)
	}
	l, err := strconv.Atoi(line)
	if err != nil || l < 1 {
		return textrange.Point{}, fmt.Errorf("position %q: bad line", s)
	}
	c, err := strconv.Atoi(col)
	if err != nil || c < 1 {
		return textrange.Point{}, fmt.Errorf("position %q: bad column", s)
	}
	return textrange.Point{Line: l, Column: c}, nil
}

func writeText(w io.Writer, results []chainResult) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", r.Point, r.Source)
		for _, rng := range r.Chain {
			fmt.Fprintf(w, "  %s\n", rng.OneBased())
		}
	}
}

type jsonResult struct {
	Position string   `json:"position"`
	Source   string   `json:"source"`
	Ranges   []string `json:"ranges"`
}

func writeJSON(w io.Writer, results []chainResult) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		ranges := make([]string, len(r.Chain))
		for j, rng := range r.Chain {
			ranges[j] = rng.OneBased().String()
		}
		out[i] = jsonResult{Position: r.Point.String(), Source: r.Source, Ranges: ranges}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
