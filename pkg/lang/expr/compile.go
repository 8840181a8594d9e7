package expr

import (
	"strings"
	"sync"
)

// DefaultCacheSize is the default bound of the compiled-predicate cache.
const DefaultCacheSize = 1024

// Predicate is a compiled expression: a pure function of (source text,
// context). Same source and same context always produce the same result;
// any randomness comes from context-supplied functions, never from the
// predicate itself.
type Predicate struct {
	source string
	root   node
}

// Source returns the trimmed source text the predicate was compiled from.
func (p *Predicate) Source() string {
	return p.source
}

// Eval evaluates the predicate against the supplied context and coerces
// the final value to boolean.
func (p *Predicate) Eval(ctx Context) (bool, error) {
	value, err := p.root.eval(ctx)
	if err != nil {
		return false, err
	}
	return toBool(value, p.source)
}

// CacheStats reports cache effectiveness, for tests and metrics.
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// Compiler sanitizes and compiles expressions, caching compiled
// predicates in a bounded LRU keyed by trimmed source text.
//
// The cache is the only shared mutable state in the language core.
// A mutex guards it; predicates themselves are immutable, so concurrent
// evaluation of a shared predicate needs no coordination.
type Compiler struct {
	mu     sync.Mutex
	cache  *lruCache
	hits   uint64
	misses uint64
}

// NewCompiler creates a Compiler with the given cache bound.
// A non-positive size falls back to DefaultCacheSize.
func NewCompiler(cacheSize int) *Compiler {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Compiler{cache: newLRUCache(cacheSize)}
}

// Compile returns the compiled predicate for an expression, sanitizing
// and parsing on cache miss. A failed compile stores nothing, so a parse
// error can never corrupt the cache.
func (c *Compiler) Compile(expression string) (*Predicate, error) {
	key := strings.TrimSpace(expression)

	c.mu.Lock()
	if predicate, ok := c.cache.get(key); ok {
		c.hits++
		c.mu.Unlock()
		return predicate, nil
	}
	c.misses++
	c.mu.Unlock()

	// Compile outside the lock. Two goroutines racing on the same new
	// key both compile; the duplicate work is benign because predicates
	// are pure.
	sanitized, err := Sanitize(expression)
	if err != nil {
		return nil, err
	}
	root, err := parse(sanitized)
	if err != nil {
		return nil, err
	}
	predicate := &Predicate{source: key, root: root}

	c.mu.Lock()
	c.cache.put(key, predicate)
	c.mu.Unlock()

	return predicate, nil
}

// Eval compiles (or fetches) an expression and evaluates it.
func (c *Compiler) Eval(expression string, ctx Context) (bool, error) {
	predicate, err := c.Compile(expression)
	if err != nil {
		return false, err
	}
	return predicate.Eval(ctx)
}

// Stats returns a snapshot of cache effectiveness.
func (c *Compiler) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Size: c.cache.len()}
}

// defaultCompiler serves the package-level Compile and Eval entry points.
var defaultCompiler = NewCompiler(DefaultCacheSize)

// Compile compiles an expression using the shared default compiler.
func Compile(expression string) (*Predicate, error) {
	return defaultCompiler.Compile(expression)
}

// Eval evaluates an expression against a context using the shared
// default compiler.
func Eval(expression string, ctx Context) (bool, error) {
	return defaultCompiler.Eval(expression, ctx)
}

// DefaultStats returns cache statistics for the shared default compiler.
func DefaultStats() CacheStats {
	return defaultCompiler.Stats()
}
