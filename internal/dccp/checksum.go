package dccp

// coverageLength computes the checksum coverage window mandated by the
// CsCov field: 0 covers the whole datagram, a value c > 0 covers the
// header plus (c - 1) 32-bit words of payload, clipped to the declared
// total length.
func coverageLength(cscov, dataOffsetWords uint8, totalLen int) int {
	if cscov == 0 {
		return totalLen
	}
	cov := (int(dataOffsetWords) + int(cscov) - 1) * 4
	if cov > totalLen {
		return totalLen
	}
	return cov
}
