// Package calculator implements the allocation engine: it turns items,
// people, and structured rules into a per-person breakdown that reconciles
// exactly to the stated grand total.
package calculator

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/smartsplit/internal/models"
)

// centUnit is the rounding tolerance for reconciliation.
var centUnit = decimal.New(1, -2)

// Calculate computes how much each person owes.
//
// Rules are applied in input order against a ledger of unclaimed quantity
// per item; whatever remains unclaimed is split evenly across all people.
// Tax and tip are backed out of the grand total (rates are relative to the
// pre-tax subtotal and not compounded on each other) and apportioned by
// each person's share of the combined subtotal. Per-person totals are
// rounded to cents half-up, and a final reconciliation pushes any rounding
// drift onto the largest total so the sum matches the grand total.
//
// Malformed or unresolvable rules are skipped, never an error. The only
// failures are empty people, empty items, and a non-positive grand total.
func Calculate(items []models.Item, people []models.Person, rules []models.Rule, taxRate, tipRate float64, grandTotal decimal.Decimal) (*models.AllocationResult, error) {
	if len(people) == 0 {
		return nil, fmt.Errorf("at least one person is required for allocation")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one item is required for allocation")
	}
	if grandTotal.Sign() <= 0 {
		return nil, fmt.Errorf("grand total must be greater than 0")
	}

	slog.Debug("Calculating allocations",
		"items", len(items),
		"people", len(people),
		"rules", len(rules),
		"tax_rate", taxRate,
		"tip_rate", tipRate,
		"grand_total", grandTotal,
	)

	allocations := make([]models.PersonAllocation, len(people))
	indexByID := make(map[string]int, len(people))
	for i, p := range people {
		allocations[i] = models.PersonAllocation{
			PersonID:   p.ID,
			PersonName: p.Name,
			Items:      []models.ItemShare{},
		}
		indexByID[p.ID] = i
	}

	// Item lookup and claimed-quantity ledger, both keyed by normalized
	// name. The ledger lives for this call only.
	itemsByName := make(map[string]models.Item, len(items))
	claimed := make(map[string]float64, len(items))
	for _, item := range items {
		itemsByName[normalizeName(item.Name)] = item
	}

	for _, rule := range rules {
		idx := resolvePerson(rule, people, indexByID)
		if idx < 0 {
			slog.Debug("Skipping rule: unresolved person",
				"person_id", rule.PersonID, "person_name", rule.PersonName)
			continue
		}

		key := normalizeName(rule.ItemName)
		item, ok := itemsByName[key]
		if !ok {
			slog.Debug("Skipping rule: unknown item", "item_name", rule.ItemName)
			continue
		}

		switch rule.Type {
		case models.RuleExclusive:
			// An exclusive claim takes the item's full original
			// quantity and exhausts the ledger, regardless of any
			// partial claims applied earlier.
			addShare(&allocations[idx], item, item.Quantity)
			claimed[key] = item.Quantity

		case models.RuleSpecific, models.RuleShared:
			if rule.Quantity <= 0 {
				continue
			}
			available := item.Quantity - claimed[key]
			qty := math.Min(rule.Quantity, available)
			if qty <= 0 {
				slog.Debug("Skipping rule: item fully claimed", "item_name", rule.ItemName)
				continue
			}
			addShare(&allocations[idx], item, qty)
			claimed[key] += qty

		default:
			slog.Debug("Skipping rule: unknown type", "type", rule.Type)
		}
	}

	// Split anything still unclaimed evenly across all people.
	for _, item := range items {
		remaining := item.Quantity - claimed[normalizeName(item.Name)]
		if remaining > 0 {
			distributeLeftover(allocations, item, remaining)
		}
	}

	totalSubtotal := decimal.Zero
	for _, a := range allocations {
		totalSubtotal = totalSubtotal.Add(a.Subtotal)
	}

	// The grand total already includes tax and tip; back each out
	// independently via amount = total × rate / (1 + rate).
	totalTax := embeddedAmount(grandTotal, taxRate)
	totalTip := embeddedAmount(grandTotal, tipRate)

	for i := range allocations {
		a := &allocations[i]
		if totalSubtotal.Sign() > 0 {
			proportion := a.Subtotal.Div(totalSubtotal)
			a.TaxShare = totalTax.Mul(proportion).Round(2)
			a.TipShare = totalTip.Mul(proportion).Round(2)
		}
		a.Total = a.Subtotal.Add(a.TaxShare).Add(a.TipShare).Round(2)
	}

	totalCalculated := sumTotals(allocations)
	difference := grandTotal.Sub(totalCalculated)

	// Reconciliation: the largest total absorbs the rounding drift so the
	// per-person totals add up to the stated grand total.
	if difference.Abs().GreaterThan(centUnit) {
		idx := largestTotal(allocations)
		allocations[idx].Total = allocations[idx].Total.Add(difference).Round(2)
		totalCalculated = sumTotals(allocations)
	}

	slog.Debug("Allocation complete",
		"total_subtotal", totalSubtotal,
		"total_calculated", totalCalculated,
		"difference", difference,
	)

	return &models.AllocationResult{
		Allocations:     allocations,
		TotalCalculated: totalCalculated,
		TotalExpected:   grandTotal,
		Difference:      difference,
	}, nil
}

// resolvePerson finds the rule's target: by ID first, then by
// case-insensitive name. Returns -1 when neither resolves.
func resolvePerson(rule models.Rule, people []models.Person, indexByID map[string]int) int {
	if rule.PersonID != "" {
		if idx, ok := indexByID[rule.PersonID]; ok {
			return idx
		}
	}
	if rule.PersonName != "" {
		for i, p := range people {
			if strings.EqualFold(p.Name, rule.PersonName) {
				return i
			}
		}
	}
	return -1
}

func addShare(a *models.PersonAllocation, item models.Item, qty float64) {
	share := models.ItemShare{
		ItemID:   item.ID,
		ItemName: item.Name,
		Quantity: qty,
		Price:    item.Price,
		Subtotal: item.Price.Mul(decimal.NewFromFloat(qty)),
	}
	a.Items = append(a.Items, share)
	a.Subtotal = a.Subtotal.Add(share.Subtotal)
}

// distributeLeftover splits remaining quantity evenly across all people:
// floor(r/n) each, one extra whole unit to the first ⌊r mod n⌋ people, and
// any fractional residue to the next person. The distributed quantities sum
// to exactly r and differ pairwise by at most one unit.
func distributeLeftover(allocations []models.PersonAllocation, item models.Item, remaining float64) {
	n := float64(len(allocations))
	perPerson := math.Floor(remaining / n)
	remainder := remaining - perPerson*n
	wholeExtra := math.Floor(remainder)
	fracExtra := remainder - wholeExtra

	for i := range allocations {
		qty := perPerson
		switch {
		case float64(i) < wholeExtra:
			qty++
		case float64(i) == wholeExtra && fracExtra > 0:
			qty += fracExtra
		}
		if qty > 0 {
			addShare(&allocations[i], item, qty)
		}
	}
}

// embeddedAmount backs the tax or tip amount out of a tax/tip-inclusive
// total: amount = total × rate / (1 + rate).
func embeddedAmount(total decimal.Decimal, rate float64) decimal.Decimal {
	if rate == 0 {
		return decimal.Zero
	}
	r := decimal.NewFromFloat(rate)
	return total.Mul(r).Div(decimal.NewFromInt(1).Add(r))
}

func sumTotals(allocations []models.PersonAllocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocations {
		sum = sum.Add(a.Total)
	}
	return sum
}

// largestTotal returns the index of the allocation with the single largest
// total, first occurrence winning ties.
func largestTotal(allocations []models.PersonAllocation) int {
	idx := 0
	for i := 1; i < len(allocations); i++ {
		if allocations[i].Total.GreaterThan(allocations[idx].Total) {
			idx = i
		}
	}
	return idx
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
