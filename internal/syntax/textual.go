package syntax

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/avitaltamir/vibeselect/internal/textrange"
)

type byteSpan struct {
	start, end int
}

// textualChain builds scopes around sel without a grammar: the word, the
// trimmed lines, every enclosing bracket pair (contents, then with brackets),
// the paragraph and the whole document.
func textualChain(d *document, sel textrange.Range) textrange.Chain {
	start, end := d.offset(sel.Start), d.offset(sel.End)
	first, last := d.position(start).Line, d.position(end).Line

	var spans []byteSpan
	add := func(s, e int) {
		if s <= start && e >= end && s <= e {
			spans = append(spans, byteSpan{s, e})
		}
	}

	add(wordAround(d.text, start, end))

	head := d.lines[first]
	tail := d.lines[last]
	add(d.starts[first]+len(head)-len(strings.TrimLeftFunc(head, unicode.IsSpace)),
		d.starts[last]+len(strings.TrimRightFunc(tail, unicode.IsSpace)))
	add(d.starts[first], d.starts[last]+len(tail))

	for _, p := range bracketPairs(d.text) {
		if p.start < start && p.end >= end {
			add(p.start+1, p.end)
			add(p.start, p.end+1)
		}
	}

	if p0, p1, ok := paragraph(d.lines, first, last); ok {
		add(d.starts[p0], d.starts[p1]+len(d.lines[p1]))
	}

	add(0, len(d.text))

	sort.Slice(spans, func(i, j int) bool {
		li, lj := spans[i].end-spans[i].start, spans[j].end-spans[j].start
		if li != lj {
			return li < lj
		}
		return spans[i].start < spans[j].start
	})

	var chain textrange.Chain
	var prev byteSpan
	for i, s := range spans {
		if i > 0 && s == prev {
			continue
		}
		prev = s
		chain = append(chain, d.rangeOf(s.start, s.end))
	}
	return chain
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordAround widens [start, end) to the identifier characters touching it.
func wordAround(text string, start, end int) (int, int) {
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}
	return start, end
}

var closers = map[byte]byte{')': '(', ']': '[', '}': '{'}

// bracketPairs returns the byte offsets of matched brackets, open in start
// and close in end. Unbalanced closers are ignored.
func bracketPairs(text string) []byteSpan {
	var pairs []byteSpan
	var stack []int
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '(', '[', '{':
			stack = append(stack, i)
		case ')', ']', '}':
			n := len(stack)
			if n == 0 || text[stack[n-1]] != closers[c] {
				continue
			}
			pairs = append(pairs, byteSpan{stack[n-1], i})
			stack = stack[:n-1]
		}
	}
	return pairs
}

// paragraph returns the run of non-blank lines around first..last.
func paragraph(lines []string, first, last int) (int, int, bool) {
	blank := func(i int) bool { return strings.TrimSpace(lines[i]) == "" }
	if blank(first) && blank(last) {
		return 0, 0, false
	}
	for first > 0 && !blank(first-1) {
		first--
	}
	for last < len(lines)-1 && !blank(last+1) {
		last++
	}
	return first, last, true
}
