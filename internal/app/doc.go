// Package app holds the use cases of the horoscope service. It coordinates
// the deterministic fortune generator, the language model writer and the
// reader's points through the interfaces in ports.
package app
