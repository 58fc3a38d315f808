package models

import "github.com/shopspring/decimal"

// Item represents a single line item on a bill.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Name is the item description as it appears on the receipt
	// (e.g., "Chapati", "Paneer Tikka"). Rules match it case-insensitively.
	Name string `json:"name"`

	// Quantity is the number of units on the bill. May be fractional.
	Quantity float64 `json:"quantity"`

	// Price is the per-unit price.
	Price decimal.Decimal `json:"price"`

	// IsTaxable marks whether the item is subject to tax.
	// Collected from input but not yet consulted when apportioning tax;
	// the engine currently taxes all items uniformly.
	IsTaxable bool `json:"is_taxable"`
}

// LineTotal returns quantity × unit price.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromFloat(i.Quantity))
}

// Person represents one participant splitting the bill.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string `json:"id"`

	// Name is the display name. Rule interpretation matches people by
	// name case-insensitively, so names should be unique per bill.
	Name string `json:"name"`
}
