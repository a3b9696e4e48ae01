// Package calculator sizes a batch of fruit muffins.
package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	MinMuffins = 1
	MaxMuffins = 100
	// DefaultMuffins is the batch shown when no count is given.
	DefaultMuffins = 6
)

var (
	// MuffinWeight is the weight of one muffin in grams.
	MuffinWeight = decimal.NewFromInt(165)
	// FruitShare is the part of each muffin that is fruit.
	FruitShare = decimal.RequireFromString("0.15")

	ErrInvalidCount = errors.New("invalid muffin count")
)

// Batch is the weight, in grams, of each ingredient of a batch.
type Batch struct {
	Count int
	Total decimal.Decimal
	Fruit decimal.Decimal
	Dough decimal.Decimal
}

// Muffins sizes a batch of count muffins, between MinMuffins and MaxMuffins.
func Muffins(count int) (Batch, error) {
	if count < MinMuffins || count > MaxMuffins {
		return Batch{}, fmt.Errorf("%w %d: must be between %d and %d", ErrInvalidCount, count, MinMuffins, MaxMuffins)
	}
	total := MuffinWeight.Mul(decimal.NewFromInt(int64(count)))
	fruit := total.Mul(FruitShare)
	return Batch{
		Count: count,
		Total: total,
		Fruit: fruit,
		Dough: total.Sub(fruit),
	}, nil
}

// FruitPercent is the share of fruit in the batch, in percent.
func (b Batch) FruitPercent() decimal.Decimal {
	return b.share(b.Fruit)
}

// DoughPercent is the share of dough in the batch, in percent.
func (b Batch) DoughPercent() decimal.Decimal {
	return b.share(b.Dough)
}

func (b Batch) share(part decimal.Decimal) decimal.Decimal {
	if !b.Total.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).DivRound(b.Total, 4)
}
