package estimate

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rta-kabinets/models"
)

func cabinet(id int64, color, size, price string) models.ProductVariant {
	return models.ProductVariant{
		ID:          id,
		ProductID:   1,
		ProductName: "Cabinet A",
		Color:       color,
		Size:        size,
		Price:       decimal.RequireFromString(price),
		Description: "Solid oak",
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLedgerAddSnapshotsVariant(t *testing.T) {
	var l Ledger
	v := cabinet(7, "red", "Large", "150")

	item := l.Add(v, 0)
	assert.Equal(t, int64(7), item.ID)
	assert.Equal(t, "Cabinet A - red - Large", item.Name)
	assert.Equal(t, "Solid oak", item.Description)
	assert.Equal(t, 1, item.Quantity)
	assert.True(t, item.Price.Equal(dec("150")))

	// later catalog price changes do not reach the ledger
	v.Price = dec("999")
	assert.True(t, l.Items()[0].Price.Equal(dec("150")))
}

func TestLedgerAddSameVariantMerges(t *testing.T) {
	var l Ledger
	v := cabinet(7, "red", "Large", "150")

	l.Add(v, 1)
	item := l.Add(v, 2)

	require.Equal(t, 1, l.Len(), "adding the same variant twice must not create a second row")
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, l.Total().Equal(dec("450")))
}

func TestLedgerAddCapsQuantity(t *testing.T) {
	var l Ledger
	v := cabinet(7, "red", "Large", "150")

	item := l.Add(v, math.MaxInt)
	assert.Equal(t, MaxQuantity, item.Quantity)

	item = l.Add(v, 1)
	assert.Equal(t, MaxQuantity, item.Quantity, "merging saturates instead of overflowing")
	assert.True(t, l.Total().Equal(dec("150").Mul(decimal.NewFromInt(MaxQuantity))))

	_, err := l.UpdateQuantity(7, "10")
	require.NoError(t, err)
	item = l.Add(v, MaxQuantity-5)
	assert.Equal(t, MaxQuantity, item.Quantity)
	assert.False(t, l.Total().IsNegative())
}

func TestLedgerAddDifferentVariantsKeepsOrder(t *testing.T) {
	var l Ledger
	l.Add(cabinet(7, "red", "Large", "150"), 1)
	l.Add(cabinet(3, "red", "Small", "100"), 1)
	l.Add(cabinet(5, "blue", "Small", "110"), 1)

	require.Equal(t, 3, l.Len(), "distinct variants are never merged")
	var ids []int64
	for _, item := range l.Items() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []int64{7, 3, 5}, ids)
}

func TestLedgerUpdateQuantity(t *testing.T) {
	var l Ledger
	l.Add(cabinet(7, "red", "Large", "150"), 1)

	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{" 4 ", 4},
		{"2.9", 2},
		{"-3", 0},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-Inf", 0},
		{"1e400", 0},
		{"1e12", 0},
	}
	for _, tt := range tests {
		item, err := l.UpdateQuantity(7, tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, item.Quantity, "input %q", tt.raw)
		assert.GreaterOrEqual(t, l.Items()[0].Quantity, 0)
	}

	_, err := l.UpdateQuantity(99, "1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestLedgerUpdatePrice(t *testing.T) {
	var l Ledger
	l.Add(cabinet(7, "red", "Large", "150"), 2)

	item, err := l.UpdatePrice(7, "149.50")
	require.NoError(t, err)
	assert.True(t, item.Price.Equal(dec("149.5")))
	assert.True(t, l.Total().Equal(dec("299")))

	for _, raw := range []string{"-1", "", "free", "NaN", "+Inf"} {
		item, err = l.UpdatePrice(7, raw)
		require.NoError(t, err)
		assert.True(t, item.Price.IsZero(), "input %q", raw)
	}

	_, err = l.UpdatePrice(42, "10")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestLedgerRemoveAndClear(t *testing.T) {
	var l Ledger
	l.Add(cabinet(7, "red", "Large", "150"), 1)
	l.Add(cabinet(3, "red", "Small", "100"), 1)

	l.Remove(99)
	assert.Equal(t, 2, l.Len())

	l.Remove(7)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, int64(3), l.Items()[0].ID)

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.True(t, l.Total().IsZero())
}

func TestLedgerTotalMatchesItemsAfterAnySequence(t *testing.T) {
	var l Ledger
	check := func() {
		sum := decimal.Zero
		for _, item := range l.Items() {
			sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		assert.True(t, l.Total().Equal(sum), "total %s != %s", l.Total(), sum)
	}

	l.Add(cabinet(1, "red", "Large", "150"), 1)
	check()
	l.Add(cabinet(2, "red", "Small", "99.99"), 3)
	check()
	_, _ = l.UpdateQuantity(1, "5")
	check()
	_, _ = l.UpdatePrice(2, "10.10")
	check()
	l.Add(cabinet(1, "red", "Large", "150"), 1)
	check()
	l.Remove(2)
	check()
	l.Clear()
	check()
}

func TestItemsReturnsCopy(t *testing.T) {
	var l Ledger
	l.Add(cabinet(7, "red", "Large", "150"), 1)

	items := l.Items()
	items[0].Quantity = 50
	assert.Equal(t, 1, l.Items()[0].Quantity)
}
