// Package rules turns free-text allocation rules into the structured rules
// the allocation engine consumes. An external LLM-backed interpreter is
// preferred when configured; any failure falls back to a deterministic
// local pattern pass.
package rules

import (
	"context"
	"log/slog"

	"github.com/mmynk/smartsplit/internal/models"
)

// Interpreter parses free-text rule lines into structured rules, given the
// display names of the known people.
type Interpreter interface {
	Interpret(ctx context.Context, lines []string, people []string) ([]models.Rule, error)
}

// Service chains an optional external interpreter with the local fallback.
type Service struct {
	external Interpreter
	fallback *Fallback
}

// NewService creates a rule interpretation service. external may be nil, in
// which case only the local fallback runs.
func NewService(external Interpreter) *Service {
	return &Service{
		external: external,
		fallback: NewFallback(),
	}
}

// Interpretation sources reported by Parse.
const (
	SourceExternal = "external"
	SourceFallback = "fallback"
)

// Parse interprets the given rule lines and reports which source produced
// them. The external interpreter's richer output is preferred; any error
// from it, not just parse errors, silently substitutes the local pass.
// Parse itself never fails: unrecognized lines simply produce no rules.
func (s *Service) Parse(ctx context.Context, lines []string, people []string) ([]models.Rule, string) {
	if s.external != nil && len(lines) > 0 {
		parsed, err := s.external.Interpret(ctx, lines, people)
		if err == nil {
			slog.Debug("Rules interpreted externally", "lines", len(lines), "rules", len(parsed))
			return parsed, SourceExternal
		}
		slog.Warn("External rule interpretation failed, using local fallback", "error", err)
	}

	parsed, _ := s.fallback.Interpret(ctx, lines, people)
	return parsed, SourceFallback
}
