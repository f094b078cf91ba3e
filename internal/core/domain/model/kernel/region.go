package kernel

import (
	"strings"

	"codship/internal/pkg/errs"
)

// ErrRegionIsNotConstructed indicates that a Region was not created through NewRegion.
var ErrRegionIsNotConstructed = errs.NewValueIsRequiredError(
	"Region must be created via NewRegion",
)

// Region is a value object identifying a served geographic area, e.g. a
// governorate code such as "CAI" or "GIZ". Partner coverage and order
// delivery addresses are both expressed in regions, and eligibility
// filtering matches them by value.
//
// Region comparison is case-insensitive: codes are normalized to upper case
// on construction.
type Region struct {
	code string
}

// NewRegion creates a Region from a non-empty code. Surrounding whitespace is
// trimmed and the code is upper-cased so that "cai" and "CAI" compare equal.
func NewRegion(code string) (Region, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Region{}, errs.NewValueIsRequiredError("region code")
	}
	return Region{code: code}, nil
}

// Validate returns ErrRegionIsNotConstructed for a zero-value Region.
func (r Region) Validate() error {
	if r.code == "" {
		return ErrRegionIsNotConstructed
	}
	return nil
}

// IsEqual compares two regions by normalized code.
func (r Region) IsEqual(other Region) bool {
	return r.code == other.code
}

// Code returns the normalized region code.
func (r Region) Code() string {
	return r.code
}

// String implements fmt.Stringer.
func (r Region) String() string {
	return r.code
}
