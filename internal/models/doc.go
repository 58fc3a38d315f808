// Package models defines the core domain types for Smart Split.
//
// # Entities
//
//   - Item: a priced line item on the bill, usually produced by receipt OCR
//   - Person: someone splitting the bill
//   - Rule: a structured allocation rule (specific, shared, or exclusive)
//   - PersonAllocation: one person's calculated share of the bill
//   - AllocationResult: the full per-person breakdown for a bill
//
// All entities are immutable inputs to the allocation engine except the
// PersonAllocation list, which the engine constructs per request. Nothing
// persists between calls.
//
// # Design Principles
//
// 1. **Money is decimal**: prices, subtotals, shares, and totals use
// shopspring/decimal end to end. Quantities stay float64 because fractional
// quantities (half a pitcher) are legal.
// 2. **Wire names are snake_case**: JSON tags match the public API exactly.
// 3. **Avoid circular references**: entities reference each other by ID or
// name strings, never by pointer.
package models
