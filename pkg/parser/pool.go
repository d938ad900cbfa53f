package parser

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
)

const (
	minPoolSize = 4
	maxPoolSize = 32
)

// PoolSize returns the number of parsers kept per dialect, which is also the
// default pipeline worker count. A positive override wins; otherwise it is
// twice GOMAXPROCS, since parses block in cgo, clamped to [4, 32].
func PoolSize(override int) int {
	if override > 0 {
		return override
	}
	return min(max(2*runtime.GOMAXPROCS(0), minPoolSize), maxPoolSize)
}

// parserPool hands out tree-sitter parsers bound to one grammar.
//
// Parsers are created lazily up to maxSize. Once that many exist, acquire
// blocks until one is released.
type parserPool struct {
	pool     chan *ts.Parser
	language *ts.Language
	dialect  Dialect
	maxSize  int

	// mutex protects created
	mutex   sync.Mutex
	created int

	logger *slog.Logger
}

func newParserPool(dialect Dialect, language *ts.Language, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		pool:     make(chan *ts.Parser, maxSize),
		language: language,
		dialect:  dialect,
		maxSize:  maxSize,
		logger:   logger,
	}
}

func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.pool:
		return parser, nil
	default:
	}

	p.mutex.Lock()
	if p.created >= p.maxSize {
		p.mutex.Unlock()
		return <-p.pool, nil
	}

	parser := ts.NewParser()
	if err := parser.SetLanguage(p.language); err != nil {
		p.mutex.Unlock()
		parser.Close()
		return nil, fmt.Errorf("failed to set %s grammar: %w", p.dialect, err)
	}
	p.created++
	created := p.created
	p.mutex.Unlock()

	p.logger.Debug("created parser in pool",
		"dialect", p.dialect.String(),
		"pool_size", created)
	return parser, nil
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	parser.Reset()

	select {
	case p.pool <- parser:
	default:
		// only reachable if a parser was released twice
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser", "dialect", p.dialect.String())
	}
}

// close releases the idle parsers. The pool must not be used afterwards.
func (p *parserPool) close() int {
	close(p.pool)
	count := 0
	for parser := range p.pool {
		parser.Close()
		count++
	}
	return count
}

func (p *parserPool) createdCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.created
}
