package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/duosort/analyze"
	"github.com/timewinder-dev/duosort/catalog"
	"github.com/timewinder-dev/duosort/script"
	"github.com/timewinder-dev/duosort/sorts"
)

// UnknownComplexity labels algorithms whose source parsed but could not be analyzed.
const UnknownComplexity = "Unknown complexity"

var (
	ErrMissingName = errors.New("please provide a name for the custom algorithm")
	ErrInvalidCode = errors.New("invalid code")
	ErrNoFunction  = script.ErrNoFunction
)

// Analyze estimates the complexity of source without admitting it.
func (s *Session) Analyze(source string) analyze.Report {
	return s.cache.Estimate(source)
}

// AddCustomAlgorithm admits source as "Custom: <name>". Re-admitting a name replaces
// the earlier algorithm in place. The estimate is returned alongside the algorithm so
// callers can show it.
func (s *Session) AddCustomAlgorithm(name, source string) (*catalog.Algorithm, analyze.Report, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, analyze.Report{}, ErrMissingName
	}
	r := s.cache.Estimate(source)
	if r.Kind == analyze.Invalid {
		return nil, r, fmt.Errorf("%w: %v", ErrInvalidCode, r.Err)
	}
	if r.Function == "" {
		return nil, r, ErrNoFunction
	}
	complexity := r.Label
	if r.Kind == analyze.AnalysisError {
		log.Warn().Err(r.Err).Str("algorithm", name).Msg("admitting algorithm without an estimate")
		complexity = UnknownComplexity
	}

	full := catalog.CustomPrefix + name
	p, err := s.runtime.Load(full, name+".star", source, r.Function)
	if err != nil {
		return nil, r, err
	}
	alg := s.Catalog.Register(full, func(input []int) sorts.Generator {
		return p.Generator(input)
	}, complexity)
	log.Info().Str("algorithm", full).Str("complexity", complexity).Str("entry", r.Function).Msg("admitted custom algorithm")
	return alg, r, nil
}
