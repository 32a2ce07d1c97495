// Package printer turns a pruned syntax tree back into source text.
//
// Printing is a splice over the original source: every detached range is
// cut out and everything else is emitted byte for byte, so comments and
// formatting of surviving code are preserved.
package printer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/panbanda/jsprune/pkg/ast"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

// MediaType is the media type registered for JavaScript minification.
const MediaType = "application/javascript"

type cut struct {
	start, end  int
	replacement string
}

// Print returns the source of tree without its detached ranges.
func Print(tree *ast.Tree) string {
	return string(PrintBytes(tree))
}

// PrintBytes is Print returning bytes.
func PrintBytes(tree *ast.Tree) []byte {
	src := tree.Source
	cuts := merge(tree.Removals())
	if len(cuts) == 0 {
		return append([]byte(nil), src...)
	}

	var buf bytes.Buffer
	buf.Grow(len(src))
	pos := 0
	for _, c := range cuts {
		if c.replacement == "" {
			c.start, c.end = widen(src, c.start, c.end)
		}
		if c.end <= pos {
			continue
		}
		if c.start < pos {
			c.start = pos
		}
		buf.Write(src[pos:c.start])
		buf.WriteString(c.replacement)
		pos = c.end
	}
	buf.Write(src[pos:])
	return buf.Bytes()
}

// merge sorts removals and folds nested or touching ranges together.
func merge(removals []ast.Removal) []cut {
	if len(removals) == 0 {
		return nil
	}
	sorted := make([]ast.Removal, len(removals))
	copy(sorted, removals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	out := []cut{{start: sorted[0].Start, end: sorted[0].End, replacement: sorted[0].Replacement}}
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		switch {
		case r.End <= last.end:
			// nested inside an earlier removal
		case r.Start <= last.end && last.replacement == "" && r.Replacement == "":
			last.end = r.End
		default:
			out = append(out, cut{start: r.Start, end: r.End, replacement: r.Replacement})
		}
	}
	return out
}

// widen extends [start, end) to whole lines when the range is the only
// thing on them, so removed definitions do not leave blank lines behind.
func widen(src []byte, start, end int) (int, int) {
	ls := start
	for ls > 0 && (src[ls-1] == ' ' || src[ls-1] == '\t') {
		ls--
	}
	if ls > 0 && src[ls-1] != '\n' {
		return start, end
	}

	le := end
	for le < len(src) && (src[le] == ' ' || src[le] == '\t' || src[le] == ';') {
		le++
	}
	switch {
	case le == len(src):
		return ls, le
	case src[le] == '\n':
		return ls, le + 1
	case src[le] == '\r' && le+1 < len(src) && src[le+1] == '\n':
		return ls, le + 2
	}
	return start, end
}

// Minify compacts JavaScript source.
func Minify(source string) (string, error) {
	m := minify.New()
	m.AddFunc(MediaType, js.Minify)
	out, err := m.String(MediaType, source)
	if err != nil {
		return "", fmt.Errorf("minify: %w", err)
	}
	return out, nil
}
