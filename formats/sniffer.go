package formats

import "sync"

// Parser decodes metadata from the head of a file of one format
type Parser interface {
	Parse(buf []byte, opts ...Option) (*Table, error)
}

var (
	parsersMu sync.RWMutex
	parsers   = make(map[Format]Parser)
)

// RegisterParser makes a parser available for a format. It is meant to be
// called from init functions.
func RegisterParser(f Format, p Parser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()
	parsers[f] = p
}

// GetParser returns the parser for the given format, or nil if the format
// has none.
func GetParser(f Format) Parser {
	parsersMu.RLock()
	defer parsersMu.RUnlock()
	return parsers[f]
}
