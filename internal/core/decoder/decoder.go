// Package decoder implements L2/L3 protocol decoding.
//
// It locates the DCCP segment inside a captured frame and produces the
// enclosing IP header reference the DCCP printer needs: addressing,
// protocol, and the declared transport payload length. Decoding here is
// best-effort over captured bytes; the declared length may exceed what was
// captured and the DCCP core is responsible for never trusting it.
package decoder

import "firestige.xyz/strix/internal/core"

// ProtocolDCCP is the IP protocol number assigned to DCCP.
const ProtocolDCCP = 33

// DecodeFrame decodes an Ethernet frame down to the transport payload.
// Returns the IP header and the captured transport-layer bytes.
func DecodeFrame(data []byte) (core.IPHeader, []byte, error) {
	eth, payload, err := decodeEthernet(data)
	if err != nil {
		return core.IPHeader{}, nil, err
	}
	if eth.EtherType != etherTypeIPv4 && eth.EtherType != etherTypeIPv6 {
		return core.IPHeader{}, nil, core.ErrUnsupportedProto
	}
	return DecodeIP(payload)
}

// DecodeIP decodes a raw IP packet (IPv4 or IPv6) down to the transport
// payload. Used directly for raw-IP link types.
func DecodeIP(data []byte) (core.IPHeader, []byte, error) {
	return decodeIP(data)
}
