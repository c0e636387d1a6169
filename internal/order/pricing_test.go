package order

import "testing"

func TestRecomputePrice_Empty(t *testing.T) {
	t.Parallel()

	got, err := RecomputePrice(nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != "0.00" {
		t.Fatalf("price=%s, esperaba 0.00", got)
	}
}

func TestRecomputePrice_Sum(t *testing.T) {
	t.Parallel()

	items := []Item{
		{Count: 2, UnitPrice: "5.00"},
		{Count: 3, UnitPrice: "2.50"},
	}
	got, err := RecomputePrice(items)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	// 2*5.00 + 3*2.50 = 17.50, exact decimal math
	if got != "17.50" {
		t.Fatalf("price=%s, esperaba 17.50", got)
	}
}

func TestRecomputePrice_NoFloatDrift(t *testing.T) {
	t.Parallel()

	// 0.10 * 3 would be 0.30000000000000004 in float64
	got, err := RecomputePrice([]Item{{Count: 3, UnitPrice: "0.10"}})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != "0.30" {
		t.Fatalf("price=%s, esperaba 0.30", got)
	}
}

func TestRecomputePrice_BadUnitPrice(t *testing.T) {
	t.Parallel()

	if _, err := RecomputePrice([]Item{{ID: "x", Count: 1, UnitPrice: "abc"}}); err == nil {
		t.Fatalf("esperaba error con unit_price inválido")
	}
}
