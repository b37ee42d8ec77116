package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DenominationComposition maps a denomination face value (as a decimal string
// key, e.g. "50000") to a signed note count. Counts may be negative during
// in-progress edits representing a decrease; a composition submitted for
// execution must total exactly the declared leg amount.
type DenominationComposition map[string]int64

// DenominationKey renders a face value as the canonical composition map key.
func DenominationKey(face decimal.Decimal) string {
	return face.String()
}

// Total sums faceValue * count over all entries.
func (dc DenominationComposition) Total() (decimal.Decimal, error) {
	total := decimal.Zero
	for key, count := range dc {
		face, err := decimal.NewFromString(key)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid denomination key %q: %w", key, err)
		}
		total = total.Add(face.Mul(decimal.NewFromInt(count)))
	}
	return total, nil
}

// IsEmpty reports whether the composition carries no non-zero counts.
func (dc DenominationComposition) IsEmpty() bool {
	for _, count := range dc {
		if count != 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the composition.
func (dc DenominationComposition) Clone() DenominationComposition {
	if dc == nil {
		return nil
	}
	out := make(DenominationComposition, len(dc))
	for k, v := range dc {
		out[k] = v
	}
	return out
}
