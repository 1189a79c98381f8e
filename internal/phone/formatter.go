package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/spec-kit/sms-bridge/pkg/util"
)

// Formatter rewrites phone numbers into the national format for a fixed
// region. The directory stores numbers inconsistently, so equality between two
// phones is defined as string equality of their normalized forms; both sides
// of any comparison must pass through Normalize first.
type Formatter struct {
	region string
}

// NewFormatter creates a formatter bound to a region (for example "US").
func NewFormatter(region string) *Formatter {
	return &Formatter{region: region}
}

// Normalize returns the national-format rendering of raw. Empty input yields
// empty output with no error; an unparsable value yields an INVALID_PHONE
// error, which search callers treat as a non-match.
func (f *Formatter) Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, f.region)
	if err != nil {
		return "", util.NewInvalidPhone(raw, err)
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL), nil
}

// Match reports whether two raw phone strings refer to the same number.
// Unparsable values never match anything.
func (f *Formatter) Match(a, b string) bool {
	na, err := f.Normalize(a)
	if err != nil || na == "" {
		return false
	}
	nb, err := f.Normalize(b)
	if err != nil || nb == "" {
		return false
	}
	return na == nb
}
