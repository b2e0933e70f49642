// Package decoder implements protocol decoding.
package decoder

import "firestige.xyz/strix/internal/core"

// TransportChecksum computes the Internet checksum of an upper-layer segment
// combined with the IP-version-specific pseudo header.
//
// seg is the byte window the transport protocol declares as covered; it
// normally includes the transport checksum field, so a correct segment
// yields 0. declaredLen is the transport length from the IP layer and is
// what goes into the pseudo header regardless of how much was captured.
func TransportChecksum(ip *core.IPHeader, seg []byte, declaredLen uint32) uint16 {
	var sum uint32

	switch ip.Version {
	case 4:
		src := ip.SrcIP.As4()
		dst := ip.DstIP.As4()
		sum = sumBytes(sum, src[:])
		sum = sumBytes(sum, dst[:])
		sum += uint32(ip.Protocol)
		sum += declaredLen & 0xFFFF
	case 6:
		src := ip.SrcIP.As16()
		dst := ip.DstIP.As16()
		sum = sumBytes(sum, src[:])
		sum = sumBytes(sum, dst[:])
		sum += declaredLen >> 16
		sum += declaredLen & 0xFFFF
		sum += uint32(ip.Protocol)
	default:
		return 0
	}

	sum = sumBytes(sum, seg)
	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return ^uint16(sum)
}

// ChecksumShouldBe folds the received checksum field back into a non-zero
// verification result, recovering the value the sender should have used.
func ChecksumShouldBe(received, computed uint16) uint16 {
	shouldbe := uint32(received) + uint32(computed)
	shouldbe = (shouldbe & 0xFFFF) + (shouldbe >> 16)
	shouldbe = (shouldbe & 0xFFFF) + (shouldbe >> 16)
	return uint16(shouldbe)
}

// sumBytes adds data to a running 16-bit one's-complement sum.
// An odd trailing byte is padded with zero, per RFC 1071.
func sumBytes(sum uint32, data []byte) uint32 {
	for len(data) >= 2 {
		sum += uint32(data[0])<<8 | uint32(data[1])
		data = data[2:]
	}
	if len(data) == 1 {
		sum += uint32(data[0]) << 8
	}
	return sum
}
