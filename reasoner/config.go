package reasoner

import (
	"time"

	"go.uber.org/zap"

	"github.com/anusornc/owl2go/cache"
	"github.com/anusornc/owl2go/classify"
	"github.com/anusornc/owl2go/tableau"
)

// Observer receives synchronous callbacks from the reasoning hot loop
// (spec §6): cache hits and misses, and, when DebugTrace is on, clashes
// and branch open/close. OnRuleFired and OnClassificationProgress are
// part of the interface, but no code in this module calls them.
// Implementations must not call
// back into the Reasoner — the convention-enforced contract spec §6
// states explicitly, since these callbacks fire from inside locks this
// package already holds.
type Observer interface {
	OnRuleFired(rule string)
	OnClashDetected(reason string)
	OnBranchOpened(branch uint32)
	OnBranchClosed(branch uint32)
	OnCacheHit(cacheName string)
	OnCacheMiss(cacheName string)
	OnClassificationProgress(done, total int)
}

// NopObserver implements Observer with no-ops; it is Config's default
// so a Reasoner never has to nil-check its observer.
type NopObserver struct{}

func (NopObserver) OnRuleFired(string)                 {}
func (NopObserver) OnClashDetected(string)              {}
func (NopObserver) OnBranchOpened(uint32)               {}
func (NopObserver) OnBranchClosed(uint32)               {}
func (NopObserver) OnCacheHit(string)                   {}
func (NopObserver) OnCacheMiss(string)                  {}
func (NopObserver) OnClassificationProgress(int, int)   {}

// Config holds every policy knob spec §6 enumerates, with
// struct-with-defaults the way the teacher's AxiomStore/SymbolTable
// pair is always built through a constructor rather than a bare
// literal.
type Config struct {
	// Timeout bounds one query's wall-clock budget; <= 0 means no
	// deadline (cancellation via context.Context is still honored).
	Timeout time.Duration

	// ClassificationParallelism bounds classify.Config.Parallelism.
	ClassificationParallelism int

	Blocking       tableau.BlockingStrategy
	DatatypeStrict bool
	DebugTrace     bool

	CacheSize int
	CacheTTLs cache.TTLConfig

	Logger   *zap.Logger
	Observer Observer
}

// DefaultConfig matches spec §6's stated defaults: equality blocking,
// strict datatype checking off, a generous cache, and a silent logger.
func DefaultConfig() Config {
	return Config{
		Timeout:                   30 * time.Second,
		ClassificationParallelism: 4,
		Blocking:                  tableau.EqualityBlocking,
		DatatypeStrict:            false,
		DebugTrace:                false,
		CacheSize:                 4096,
		CacheTTLs:                 cache.DefaultTTLConfig(),
		Logger:                    nil,
		Observer:                 NopObserver{},
	}
}

// tableauObserverAdapter forwards the tableau's trace callbacks to the
// facade-level Observer; it is only attached when DebugTrace is on, so
// the hot loop pays nothing by default.
type tableauObserverAdapter struct {
	o Observer
}

func (t tableauObserverAdapter) OnClashDetected(reason string) { t.o.OnClashDetected(reason) }
func (t tableauObserverAdapter) OnBranchOpened(b uint32)       { t.o.OnBranchOpened(b) }
func (t tableauObserverAdapter) OnBranchClosed(b uint32)       { t.o.OnBranchClosed(b) }

func (c Config) tableauConfig() tableau.Config {
	tc := tableau.DefaultConfig()
	tc.Blocking = c.Blocking
	if c.DebugTrace {
		tc.Observer = tableauObserverAdapter{o: c.Observer}
	}
	return tc
}

func (c Config) classifyConfig() classify.Config {
	return classify.Config{Parallelism: c.ClassificationParallelism}
}

// Option configures a Reasoner at construction time.
type Option func(*Config)

func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

func WithBlockingPolicy(b tableau.BlockingStrategy) Option {
	return func(c *Config) { c.Blocking = b }
}

func WithParallelism(n int) Option {
	return func(c *Config) { c.ClassificationParallelism = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func WithDatatypeStrict(strict bool) Option {
	return func(c *Config) { c.DatatypeStrict = strict }
}

func WithDebugTrace(debug bool) Option {
	return func(c *Config) { c.DebugTrace = debug }
}

func WithObserver(o Observer) Option {
	return func(c *Config) {
		if o != nil {
			c.Observer = o
		}
	}
}

func WithCacheSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.CacheSize = n
		}
	}
}
