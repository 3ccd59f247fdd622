package fortune

import "fmt"

// PickFromList returns the element of items selected by the seed of seedInput.
// It panics when items is empty: candidate lists are fixed at build time and
// an empty one is a programming error.
func PickFromList[T any](seedInput string, items []T) T {
	if len(items) == 0 {
		panic(fmt.Sprintf("fortune: empty candidate list for seed input %q", seedInput))
	}

	return items[Seed(seedInput)%uint32(len(items))]
}

// PickInRange returns an integer in [lo, hi] selected by the seed of seedInput.
// It panics when lo > hi.
func PickInRange(seedInput string, lo, hi int) int {
	if lo > hi {
		panic(fmt.Sprintf("fortune: invalid range [%d, %d] for seed input %q", lo, hi, seedInput))
	}

	span := uint32(hi - lo + 1)

	return lo + int(Seed(seedInput)%span)
}
