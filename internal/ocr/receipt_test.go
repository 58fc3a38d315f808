package ocr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReceipt(t *testing.T) {
	text := `FRESH MART
Chicken Biryani
16.99 F
Paneer Tikka
12.49
Garlic Naan
3.99 F
SUBTOTAL
33.47
TAX
2.68
TOTAL
36.15`

	items := ParseReceipt(text)
	require.Len(t, items, 3)

	assert.Equal(t, "Chicken Biryani", items[0].Name)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("16.99")))
	assert.Equal(t, 1.0, items[0].Quantity)
	assert.True(t, items[0].IsTaxable)
	assert.NotEmpty(t, items[0].ID)

	assert.Equal(t, "Paneer Tikka", items[1].Name)
	assert.Equal(t, "Garlic Naan", items[2].Name)
	assert.True(t, items[2].Price.Equal(decimal.RequireFromString("3.99")))
}

func TestParseReceiptMergesDuplicates(t *testing.T) {
	text := `Garlic Naan
3.99
Garlic Naan
3.99`

	items := ParseReceipt(text)
	require.Len(t, items, 1)
	assert.Equal(t, 2.0, items[0].Quantity)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("3.99")))
}

func TestParseReceiptSkipsNoise(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty text", ""},
		{"totals only", "SUBTOTAL\n10.00\nTOTAL\n10.80"},
		{"name without price", "Mystery Item\nAnother Line Without Price"},
		{"too-short name", "Ab\n4.99"},
		{"payment noise", "CASH\n20.00\nCHANGE\n3.85"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ParseReceipt(tt.text))
		})
	}
}
