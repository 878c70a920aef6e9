// Package catalog keeps the registered sorting algorithms, in the order they were
// registered.
package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/duosort/sorts"
)

// CustomPrefix marks algorithms admitted from user source.
const CustomPrefix = "Custom: "

var ErrNotFound = errors.New("algorithm not found")

// Factory builds a fresh generator over its own copy of input. Two calls never share
// state.
type Factory func(input []int) sorts.Generator

type Algorithm struct {
	Name       string
	Factory    Factory
	Complexity string
}

// Catalog maps algorithm names to algorithms. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*Algorithm
}

func New() *Catalog {
	return &Catalog{
		entries: make(map[string]*Algorithm),
	}
}

// Register adds an algorithm, or replaces the one already registered under name while
// keeping its position.
func (c *Catalog) Register(name string, factory Factory, complexity string) *Algorithm {
	a := &Algorithm{Name: name, Factory: factory, Complexity: complexity}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[name]; !ok {
		c.order = append(c.order, name)
	}
	c.entries[name] = a
	log.Debug().Str("algorithm", name).Str("complexity", complexity).Msg("registered algorithm")
	return a
}

func (c *Catalog) Lookup(name string) (*Algorithm, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return a, nil
}

func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
