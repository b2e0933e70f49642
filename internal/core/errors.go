// Package core defines sentinel errors.
package core

import "errors"

// Decode failures come in two kinds: truncation (fewer bytes captured than a
// field access requires) and malformation (declared lengths or field values
// violate protocol rules). Both abort the current datagram only; the caller
// proceeds to the next packet.
var (
	// Packet decoding errors
	ErrTruncated        = errors.New("strix: captured data exhausted")
	ErrTooShort         = errors.New("strix: declared length too short for header")
	ErrMalformed        = errors.New("strix: malformed segment")
	ErrPacketTooShort   = errors.New("strix: packet too short")
	ErrUnsupportedProto = errors.New("strix: unsupported protocol")

	// Source errors
	ErrSourceNotStarted = errors.New("strix: source not started")
	ErrReadTimeout      = errors.New("strix: packet read timed out")

	// Configuration errors
	ErrConfigInvalid = errors.New("strix: invalid configuration")
)

// IsDecodeFailure reports whether err is one of the per-datagram decode
// failures that map to the uniform invalid marker.
func IsDecodeFailure(err error) bool {
	return errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrTooShort) ||
		errors.Is(err, ErrMalformed)
}
