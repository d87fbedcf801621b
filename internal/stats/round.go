// Package stats computes the derived per-game metrics of a StatRecord.
//
// Every function here is a pure function of the record's raw fields. Metrics
// whose denominator can be zero return (value, ok) and report ok=false instead
// of a misleading zero.
package stats

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Round rounds x to the given number of decimal places using round-half-even
// on the exact binary value of x, which matches the historical outputs.
// 2.675 rounds to 2.67 (its binary value is below the midpoint) and 0.25
// rounds to 0.2.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	exact := new(big.Float).SetFloat64(x).Text('f', 40)
	d, err := decimal.NewFromString(exact)
	if err != nil {
		return x
	}
	rounded, _ := d.RoundBank(places).Float64()
	return rounded
}

func ratio(num, den float64) float64 {
	return num / den
}

// floorDiv and floorMod follow floored division so negative penalty minutes
// split the same way the source data pipeline does.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
