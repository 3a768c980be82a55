package domain

import "slices"

// Size is the global icon size applied uniformly to every icon.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Sizes lists the valid sizes from smallest to largest.
var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge}

// Valid reports whether s is one of the enumerated sizes.
func (s Size) Valid() bool {
	return slices.Contains(Sizes, s)
}

// ParseSize converts v to a Size. It returns false for unknown values.
func ParseSize(v string) (Size, bool) {
	s := Size(v)
	return s, s.Valid()
}
