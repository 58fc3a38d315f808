package ocr

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/smartsplit/internal/models"
)

// skipWords marks receipt lines that are not purchasable items: totals,
// payment details, store chrome.
var skipWords = []string{
	"total", "subtotal", "tax", "tip", "amount", "change", "cash", "card",
	"store", "cashier", "order", "free", "delivery", "number", "savings",
	"points", "trx", "term", "rtns", "exch", "final", "days",
}

// pricePattern matches a price-only line, optionally suffixed with the "F"
// (food) flag some registers print, e.g. "16.99 F".
var pricePattern = regexp.MustCompile(`^(\d+\.?\d*)\s*F?$`)

// ParseReceipt turns extracted receipt text into candidate bill items. The
// usual register layout is an item-name line followed by a price line;
// duplicated item names are merged by summing their quantities. Lines that
// look like totals or payment noise are skipped.
func ParseReceipt(text string) []models.Item {
	lines := strings.Split(text, "\n")

	var order []string
	byName := make(map[string]*models.Item)

	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])
		if line == "" || containsSkipWord(line) {
			i++
			continue
		}

		name := line
		price := decimal.Zero
		quantity := 1.0

		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if m := pricePattern.FindStringSubmatch(next); m != nil {
				if p, err := decimal.NewFromString(m[1]); err == nil {
					price = p
				}
				i += 2
			} else {
				i++
			}
		} else {
			i++
		}

		if price.Sign() <= 0 {
			continue
		}

		name = strings.Join(strings.Fields(name), " ")
		if len(name) < 3 || containsSkipWord(name) {
			continue
		}

		if existing, ok := byName[name]; ok {
			existing.Quantity += quantity
			continue
		}
		byName[name] = &models.Item{
			ID:        uuid.NewString(),
			Name:      name,
			Quantity:  quantity,
			Price:     price,
			IsTaxable: true,
		}
		order = append(order, name)
	}

	items := make([]models.Item, 0, len(order))
	for _, name := range order {
		items = append(items, *byName[name])
	}
	return items
}

func containsSkipWord(line string) bool {
	lower := strings.ToLower(line)
	for _, word := range skipWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
