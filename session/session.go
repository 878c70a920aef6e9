// Package session ties the catalog, the complexity estimator, the script runtime and
// the lane scheduler into one unit that a front end can drive.
package session

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/duosort/analyze"
	"github.com/timewinder-dev/duosort/catalog"
	"github.com/timewinder-dev/duosort/lanes"
	"github.com/timewinder-dev/duosort/script"
)

type Session struct {
	Config    *Config
	Catalog   *catalog.Catalog
	Scheduler *lanes.Scheduler

	cache   *analyze.Cache
	runtime *script.Runtime
}

// New builds a session from cfg, admitting its custom algorithms and binding its lanes.
// The scheduler is not running yet; call Scheduler.Run.
func New(cfg *Config, display lanes.Display, opts ...lanes.Option) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Session{
		Config:  cfg,
		Catalog: catalog.NewWithBuiltins(),
		cache:   analyze.NewCache(0),
		runtime: script.New(script.WithMaxSteps(cfg.Script.MaxSteps)),
	}
	for _, cu := range cfg.Custom {
		src, err := os.ReadFile(cu.File)
		if err != nil {
			return nil, fmt.Errorf("custom algorithm %q: %w", cu.Name, err)
		}
		if _, _, err := s.AddCustomAlgorithm(cu.Name, string(src)); err != nil {
			return nil, fmt.Errorf("custom algorithm %q: %w", cu.Name, err)
		}
	}

	base := []lanes.Option{
		lanes.WithSize(cfg.Array.Size),
		lanes.WithRange(cfg.Array.Min, cfg.Array.Max),
		lanes.WithSource(lanes.NewRandomSource(cfg.Array.Seed)),
	}
	for i, l := range cfg.Lanes {
		if _, err := s.Catalog.Lookup(l.Algorithm); err != nil {
			return nil, fmt.Errorf("lane %d: %w", i, err)
		}
		base = append(base, lanes.WithLane(i, l.Algorithm, l.Interval()))
	}
	s.Scheduler = lanes.New(s.Catalog, display, append(base, opts...)...)
	log.Debug().Int("algorithms", s.Catalog.Len()).Int("size", cfg.Array.Size).Msg("session ready")
	return s, nil
}

// CacheStats reports how often Analyze was answered from the estimate cache.
func (s *Session) CacheStats() analyze.CacheStats {
	return s.cache.Stats()
}
