package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecomputePrice derives the order total from its items:
// sum(unit_price * count). Prices travel as NUMERIC strings, so the math
// goes through decimal, never float. An empty item set yields "0.00".
//
// Every item mutation must write the value returned here in the same
// transaction; the cached price column is only correct by discipline.
func RecomputePrice(items []Item) (string, error) {
	total := decimal.Zero
	for _, it := range items {
		unit, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return "", fmt.Errorf("item %s: bad unit_price %q: %w", it.ID, it.UnitPrice, err)
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(it.Count))))
	}
	return total.StringFixed(2), nil
}
