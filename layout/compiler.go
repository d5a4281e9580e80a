package layout

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/schema"
)

// Options configures a Compiler.
type Options struct {
	// VerifyCoverage runs Layout.Verify on every newly planned layout.
	VerifyCoverage bool
}

// DefaultOptions returns default compiler configuration.
func DefaultOptions() Options {
	return Options{
		VerifyCoverage: true,
	}
}

// Stats reports cache activity.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Compiler plans layouts and memoizes them by schema key. Thread-safe.
// Schemas with equal keys share one placement; a schema whose name differs
// from the cached one gets a Layout carrying its own name.
type Compiler struct {
	group   singleflight.Group
	cache   sync.Map // schema key -> *Layout
	hits    atomic.Uint64
	misses  atomic.Uint64
	entries atomic.Int64
	options Options
}

// NewCompiler creates a compiler with the given options.
func NewCompiler(opts Options) *Compiler {
	return &Compiler{options: opts}
}

// NewCompilerWithDefaults creates a compiler with default options.
func NewCompilerWithDefaults() *Compiler {
	return NewCompiler(DefaultOptions())
}

// Options returns the configuration.
func (c *Compiler) Options() Options {
	return c.options
}

// Compile returns the layout for s, planning it at most once per key even
// under concurrent callers.
func (c *Compiler) Compile(s *schema.Schema) (*Layout, error) {
	if s == nil {
		return nil, errors.NilPointer(errors.PhaseLayout, nil, "*schema.Schema")
	}

	key := s.Key()
	if cached, ok := c.cache.Load(key); ok {
		c.hits.Add(1)
		return cached.(*Layout).named(s), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if cached, ok := c.cache.Load(key); ok {
			c.hits.Add(1)
			return cached, nil
		}
		c.misses.Add(1)

		l := Plan(s)
		if c.options.VerifyCoverage {
			if err := l.Verify(); err != nil {
				return nil, err
			}
		}

		c.cache.Store(key, l)
		c.entries.Add(1)
		Logger().Debug("planned layout",
			zap.String("schema", s.Name()),
			zap.String("key", key),
			zap.Int("total", s.TotalWidth()),
			zap.Stringer("storage", l.Storage()),
		)
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Layout).named(s), nil
}

// Define validates fields and compiles the resulting schema.
func (c *Compiler) Define(name string, fields ...schema.Field) (*Layout, error) {
	s, err := schema.Validate(name, fields...)
	if err != nil {
		Logger().Debug("schema rejected", zap.String("schema", name), zap.Error(err))
		return nil, err
	}
	return c.Compile(s)
}

// Stats returns a snapshot of cache counters.
func (c *Compiler) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: int(c.entries.Load()),
	}
}

// Reset drops all cached layouts.
func (c *Compiler) Reset() {
	c.cache.Range(func(k, _ any) bool {
		c.cache.Delete(k)
		return true
	})
	c.entries.Store(0)
}
