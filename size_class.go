// SPDX-License-Identifier: Apache-2.0

package arena

// SizeClass identifies one of the three independent free lists of a segregated pool.
type SizeClass uint8

const (
	ClassSmall SizeClass = iota
	ClassMedium
	ClassLarge

	numClasses = 3
)

func (c SizeClass) String() string {
	switch c {
	case ClassSmall:
		return "small"
	case ClassMedium:
		return "medium"
	case ClassLarge:
		return "large"
	default:
		return "unknown"
	}
}

// classBounds holds the inclusive lower bounds of the medium and large classes.
type classBounds struct {
	medium uint32
	large  uint32
}

// classify maps a payload size to its class.
func (b classBounds) classify(size uint32) SizeClass {
	switch {
	case size >= b.large:
		return ClassLarge
	case size >= b.medium:
		return ClassMedium
	default:
		return ClassSmall
	}
}
