package models

// RuleType is the closed set of structured allocation rule kinds.
type RuleType string

const (
	// RuleSpecific assigns an explicit quantity of an item to one person,
	// capped by the item's remaining unclaimed supply.
	RuleSpecific RuleType = "specific"

	// RuleShared is a specific rule fanned out once per person from an
	// "everyone shares" phrasing. The engine treats it exactly like a
	// specific rule.
	RuleShared RuleType = "shared"

	// RuleExclusive assigns an item's entire quantity to one person and
	// marks the item fully claimed.
	RuleExclusive RuleType = "exclusive"
)

// Rule is a structured allocation rule consumed by the engine.
//
// Rules arrive from two sources: the API (with PersonID set) and the rule
// interpreter (with PersonName set, since free text only knows names). The
// engine resolves the target by ID first and falls back to a
// case-insensitive name match; a rule that resolves neither is skipped,
// never an error.
type Rule struct {
	ID string `json:"id,omitempty"`

	// Raw preserves the original free-text phrasing when the rule was
	// interpreted from natural language.
	Raw string `json:"rule,omitempty"`

	Type RuleType `json:"type"`

	PersonID   string `json:"person_id,omitempty"`
	PersonName string `json:"person_name,omitempty"`

	// ItemName references the item by name, matched case-insensitively.
	ItemName string `json:"item_name"`

	// Quantity is required for specific/shared rules. Exclusive rules
	// leave it zero; the full item quantity is implied.
	Quantity float64 `json:"quantity,omitempty"`
}
