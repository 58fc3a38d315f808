package rules

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmynk/smartsplit/internal/models"
)

// Patterns are tried in order against the lowercased, trimmed line; the
// first match wins. Item names are free-text spans trimmed of surrounding
// whitespace.
var (
	everyonePattern  = regexp.MustCompile(`^everyone shares (\d+)\s+([a-z\s]+)`)
	exclusivePattern = regexp.MustCompile(`^only ([a-z]+)\s+takes\s+([a-z\s]+)`)
	specificPattern  = regexp.MustCompile(`^([a-z]+)\s+takes\s+(\d+)\s+([a-z\s]+)`)
	simplePattern    = regexp.MustCompile(`^([a-z]+)\s+takes\s+([a-z\s]+)`)
)

// Fallback is the deterministic local rule interpreter. It is best-effort:
// lines matching no pattern are silently dropped, and callers must tolerate
// rules being partially or fully unrecognized.
type Fallback struct{}

// NewFallback creates the local pattern-based interpreter.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Interpret parses each line independently. One line produces at most one
// rule, except the "everyone shares" phrasing which fans out to one shared
// rule per known person. The error is always nil; it exists to satisfy
// Interpreter.
func (f *Fallback) Interpret(_ context.Context, lines []string, people []string) ([]models.Rule, error) {
	var parsed []models.Rule

	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))

		if m := everyonePattern.FindStringSubmatch(lower); m != nil {
			qty, _ := strconv.Atoi(m[1])
			item := strings.TrimSpace(m[2])
			for _, person := range people {
				parsed = append(parsed, models.Rule{
					Raw:        line,
					Type:       models.RuleShared,
					PersonName: person,
					ItemName:   item,
					Quantity:   float64(qty),
				})
			}
			continue
		}

		if m := exclusivePattern.FindStringSubmatch(lower); m != nil {
			parsed = append(parsed, models.Rule{
				Raw:        line,
				Type:       models.RuleExclusive,
				PersonName: m[1],
				ItemName:   strings.TrimSpace(m[2]),
			})
			continue
		}

		if m := specificPattern.FindStringSubmatch(lower); m != nil {
			qty, _ := strconv.Atoi(m[2])
			parsed = append(parsed, models.Rule{
				Raw:        line,
				Type:       models.RuleSpecific,
				PersonName: m[1],
				ItemName:   strings.TrimSpace(m[3]),
				Quantity:   float64(qty),
			})
			continue
		}

		if m := simplePattern.FindStringSubmatch(lower); m != nil {
			parsed = append(parsed, models.Rule{
				Raw:        line,
				Type:       models.RuleSpecific,
				PersonName: m[1],
				ItemName:   strings.TrimSpace(m[2]),
				Quantity:   1,
			})
		}
	}

	return parsed, nil
}
