package dither

import (
	"fmt"
	"strings"
)

// Type selects the probability distribution used for dither noise.
type Type int

const (
	// None applies no dither (plain rounding).
	None Type = iota
	// Rectangular uses a uniform PDF of one LSB peak.
	Rectangular
	// Triangular uses a triangular PDF (TPDF), the usual choice for export.
	Triangular

	typeCount
)

var typeNames = [typeCount]string{"none", "rectangular", "triangular"}

// String returns the lower-case name of the dither type.
func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known dither type.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// ParseType accepts the names returned by String, case-insensitively.
func ParseType(s string) (Type, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range typeNames {
		if s == name {
			return Type(i), true
		}
	}
	if s == "tpdf" {
		return Triangular, true
	}
	return None, false
}
