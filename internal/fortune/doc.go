// Package fortune generates daily fortunes deterministically from a zodiac
// sign key and a date key.
//
// Every field of a fortune is picked from a fixed candidate list (or a star
// range) using a 32-bit seed derived from a per-field input string. The input
// is the shared base "<date>_<sign>" followed by a discriminator that is
// unique to the field, so fields vary independently of each other while the
// whole record stays stable for a given (sign, date) pair.
//
// Nothing here performs I/O or reads the clock. All functions are safe for
// concurrent use.
package fortune
