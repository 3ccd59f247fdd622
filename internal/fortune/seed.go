package fortune

import "unicode/utf16"

const (
	seedOffset uint32 = 2166136261
	seedPrime  uint32 = 16777619
)

// Seed hashes s into a 32-bit seed. The hash is FNV-1a applied to the UTF-16
// code units of s rather than to its bytes, so characters outside ASCII mix
// in as a single 16-bit unit (or a surrogate pair).
//
// Different inputs may share a seed. That is expected.
func Seed(s string) uint32 {
	h := seedOffset

	for _, r := range s {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			h = (h ^ uint32(hi)) * seedPrime
			h = (h ^ uint32(lo)) * seedPrime

			continue
		}

		h = (h ^ uint32(r)) * seedPrime
	}

	return h
}
