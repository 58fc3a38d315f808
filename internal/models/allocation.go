package models

import "github.com/shopspring/decimal"

// ItemShare is one person's slice of a single item.
type ItemShare struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`

	// Quantity is the portion of the item allocated to this person.
	Quantity float64 `json:"quantity"`

	// Price is the item's unit price.
	Price decimal.Decimal `json:"price"`

	// Subtotal is quantity × price.
	Subtotal decimal.Decimal `json:"subtotal"`
}

// PersonAllocation is one person's calculated share of the bill.
// This is the output of the allocation engine.
type PersonAllocation struct {
	PersonID   string `json:"person_id"`
	PersonName string `json:"person_name"`

	// Items lists this person's shares in allocation order.
	Items []ItemShare `json:"items"`

	// Subtotal is the sum of item share subtotals (pre-tax).
	Subtotal decimal.Decimal `json:"subtotal"`

	// TaxShare is this person's proportional share of the tax embedded
	// in the grand total, rounded to cents.
	TaxShare decimal.Decimal `json:"tax_share"`

	// TipShare is this person's proportional share of the tip embedded
	// in the grand total, rounded to cents.
	TipShare decimal.Decimal `json:"tip_share"`

	// Total is subtotal + tax share + tip share, rounded to cents.
	// Reconciliation may adjust the largest total so the sum matches
	// the grand total exactly.
	Total decimal.Decimal `json:"total"`
}

// AllocationResult is the full outcome of one allocation run.
type AllocationResult struct {
	Allocations []PersonAllocation `json:"allocations"`

	// TotalCalculated is the sum of all per-person totals after
	// reconciliation.
	TotalCalculated decimal.Decimal `json:"total_calculated"`

	// TotalExpected is the grand total the caller stated.
	TotalExpected decimal.Decimal `json:"total_expected"`

	// Difference is the pre-reconciliation gap between the grand total
	// and the sum of rounded totals, kept for observability.
	Difference decimal.Decimal `json:"difference"`
}
