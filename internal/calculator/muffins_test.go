package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMuffins(t *testing.T) {
	tests := []struct {
		count               int
		total, fruit, dough string
	}{
		{1, "165", "24.75", "140.25"},
		{6, "990", "148.5", "841.5"},
		{100, "16500", "2475", "14025"},
	}
	for _, tt := range tests {
		b, err := Muffins(tt.count)
		if err != nil {
			t.Fatalf("Muffins(%d) error = %v", tt.count, err)
		}
		for name, c := range map[string][2]decimal.Decimal{
			"total": {b.Total, decimal.RequireFromString(tt.total)},
			"fruit": {b.Fruit, decimal.RequireFromString(tt.fruit)},
			"dough": {b.Dough, decimal.RequireFromString(tt.dough)},
		} {
			if !c[0].Equal(c[1]) {
				t.Errorf("Muffins(%d) %s = %s, want %s", tt.count, name, c[0], c[1])
			}
		}
		if !b.FruitPercent().Equal(decimal.NewFromInt(15)) || !b.DoughPercent().Equal(decimal.NewFromInt(85)) {
			t.Errorf("Muffins(%d) shares = %s/%s", tt.count, b.FruitPercent(), b.DoughPercent())
		}
	}
}

func TestMuffinsOutOfRange(t *testing.T) {
	for _, n := range []int{0, -3, 101} {
		if _, err := Muffins(n); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("Muffins(%d) error = %v, want ErrInvalidCount", n, err)
		}
	}
}
