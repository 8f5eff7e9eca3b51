package eval

import (
	"sort"

	"github.com/jcorbin/minforth/internal/ast"
)

// Words is the table of user defined words. Entries are added or replaced,
// never removed. A table outlives any single evaluation: in an interactive
// session, words defined by one line stay visible to later lines.
type Words struct {
	defs map[string]ast.Block
}

// NewWords returns an empty table.
func NewWords() *Words {
	return &Words{defs: make(map[string]ast.Block)}
}

// Define binds name to body, replacing any prior definition.
func (ws *Words) Define(name string, body ast.Block) {
	if ws.defs == nil {
		ws.defs = make(map[string]ast.Block)
	}
	ws.defs[name] = body
}

// Lookup returns the body bound to name, or an UnknownWordError.
func (ws *Words) Lookup(name string) (ast.Block, error) {
	if body, defined := ws.defs[name]; defined {
		return body, nil
	}
	return nil, UnknownWordError{name}
}

// Names returns all defined names in sorted order.
func (ws *Words) Names() []string {
	names := make([]string, 0, len(ws.defs))
	for name := range ws.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of defined words.
func (ws *Words) Len() int { return len(ws.defs) }
