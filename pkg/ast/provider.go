package ast

import (
	"context"
	"errors"
)

// ErrUnsupportedLanguage is returned when parsing a file with an unsupported language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Provider abstracts the parser that turns source text into a Tree.
type Provider interface {
	// Parse parses source and returns its syntax tree. A source that is
	// not syntactically valid yields a *parser.ParseFailure error.
	Parse(ctx context.Context, name string, source []byte) (*Tree, error)

	// Close releases provider resources.
	Close()
}
