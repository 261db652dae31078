// Package pricing computes reservation totals. All arithmetic runs on integer
// cents so that total == subtotal + service fee holds exactly.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultFeeRate = 0.10

	basisPoints = 10000
)

var ErrInvalidPricingInput = errors.New("invalid pricing input")

// Totals is the priced breakdown of a reservation.
type Totals struct {
	SubtotalCents   int64
	ServiceFeeCents int64
	TotalCents      int64
}

func (t Totals) Subtotal() float64   { return FromCents(t.SubtotalCents) }
func (t Totals) ServiceFee() float64 { return FromCents(t.ServiceFeeCents) }
func (t Totals) Total() float64      { return FromCents(t.TotalCents) }

// HostPayout is what the host receives: the total minus the platform fee.
func (t Totals) HostPayout() float64 {
	return FromCents(t.TotalCents - t.ServiceFeeCents)
}

// ComputeTotals prices durationUnits units at unitPrice and adds a service fee
// of feeRate, rounded half-up to the cent.
func ComputeTotals(unitPrice float64, durationUnits int, feeRate float64) (Totals, error) {
	if math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) || unitPrice <= 0 {
		return Totals{}, fmt.Errorf("%w: unit price must be positive, got %v", ErrInvalidPricingInput, unitPrice)
	}
	if durationUnits <= 0 {
		return Totals{}, fmt.Errorf("%w: duration units must be positive, got %d", ErrInvalidPricingInput, durationUnits)
	}
	if math.IsNaN(feeRate) || feeRate < 0 || feeRate >= 1 {
		return Totals{}, fmt.Errorf("%w: fee rate must be in [0, 1), got %v", ErrInvalidPricingInput, feeRate)
	}

	unitCents := ToCents(unitPrice)
	if unitCents <= 0 {
		return Totals{}, fmt.Errorf("%w: unit price rounds to zero cents", ErrInvalidPricingInput)
	}

	subtotal := unitCents * int64(durationUnits)
	bps := int64(math.Round(feeRate * basisPoints))
	fee := (subtotal*bps + basisPoints/2) / basisPoints

	return Totals{
		SubtotalCents:   subtotal,
		ServiceFeeCents: fee,
		TotalCents:      subtotal + fee,
	}, nil
}

// ToCents converts an amount to integer cents, rounding half away from zero.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// Round2 rounds an amount half-up to two decimals.
func Round2(amount float64) float64 {
	return FromCents(ToCents(amount))
}

// Equal reports whether two amounts are the same to the cent.
func Equal(a, b float64) bool {
	return ToCents(a) == ToCents(b)
}

func Format(amount float64) string {
	return fmt.Sprintf("%.2f", Round2(amount))
}
