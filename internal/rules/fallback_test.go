package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/smartsplit/internal/models"
)

func TestFallbackInterpret(t *testing.T) {
	people := []string{"Alice", "Bob", "Carol"}

	tests := []struct {
		name  string
		lines []string
		want  []models.Rule
	}{
		{
			name:  "everyone shares fans out per person",
			lines: []string{"everyone shares 5 chapatis"},
			want: []models.Rule{
				{Raw: "everyone shares 5 chapatis", Type: models.RuleShared, PersonName: "Alice", ItemName: "chapatis", Quantity: 5},
				{Raw: "everyone shares 5 chapatis", Type: models.RuleShared, PersonName: "Bob", ItemName: "chapatis", Quantity: 5},
				{Raw: "everyone shares 5 chapatis", Type: models.RuleShared, PersonName: "Carol", ItemName: "chapatis", Quantity: 5},
			},
		},
		{
			name:  "only person takes item is exclusive with implied quantity",
			lines: []string{"Only Alice takes paneer tikka"},
			want: []models.Rule{
				{Raw: "Only Alice takes paneer tikka", Type: models.RuleExclusive, PersonName: "alice", ItemName: "paneer tikka"},
			},
		},
		{
			name:  "person takes quantity item",
			lines: []string{"Carol takes 2 chapatis"},
			want: []models.Rule{
				{Raw: "Carol takes 2 chapatis", Type: models.RuleSpecific, PersonName: "carol", ItemName: "chapatis", Quantity: 2},
			},
		},
		{
			name:  "person takes item defaults quantity to one",
			lines: []string{"bob takes lassi"},
			want: []models.Rule{
				{Raw: "bob takes lassi", Type: models.RuleSpecific, PersonName: "bob", ItemName: "lassi", Quantity: 1},
			},
		},
		{
			name:  "surrounding whitespace and case are ignored",
			lines: []string{"  EVERYONE SHARES 2 naan  "},
			want: []models.Rule{
				{Raw: "  EVERYONE SHARES 2 naan  ", Type: models.RuleShared, PersonName: "Alice", ItemName: "naan", Quantity: 2},
				{Raw: "  EVERYONE SHARES 2 naan  ", Type: models.RuleShared, PersonName: "Bob", ItemName: "naan", Quantity: 2},
				{Raw: "  EVERYONE SHARES 2 naan  ", Type: models.RuleShared, PersonName: "Carol", ItemName: "naan", Quantity: 2},
			},
		},
		{
			name:  "unmatched lines are silently dropped",
			lines: []string{"split the dessert however", ""},
			want:  nil,
		},
		{
			name: "first matching pattern wins per line",
			lines: []string{
				"alice takes 3 samosas",
				"gibberish line",
				"only bob takes raita",
			},
			want: []models.Rule{
				{Raw: "alice takes 3 samosas", Type: models.RuleSpecific, PersonName: "alice", ItemName: "samosas", Quantity: 3},
				{Raw: "only bob takes raita", Type: models.RuleExclusive, PersonName: "bob", ItemName: "raita"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFallback().Interpret(context.Background(), tt.lines, people)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
