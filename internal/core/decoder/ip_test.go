package decoder

import (
	"errors"
	"net/netip"
	"testing"

	"firestige.xyz/strix/internal/core"
)

func TestDecodeIPv4Basic(t *testing.T) {
	// Minimal IPv4 header (20 bytes)
	data := []byte{
		0x45,       // Version 4, IHL 5
		0x00,       // DSCP, ECN
		0x00, 0x20, // Total Length: 32 bytes (20 header + 12 payload)
		0x12, 0x34, // Identification
		0x00, 0x00, // Flags, Fragment Offset
		0x40,       // TTL: 64
		33,         // Protocol: DCCP
		0x00, 0x00, // Checksum
		192, 168, 1, 1, // Src IP
		192, 168, 1, 2, // Dst IP
		0x01, 0x02, 0x03, 0x04, // Payload (partially captured)
	}

	ip, payload, err := decodeIPv4(data)
	if err != nil {
		t.Fatalf("decodeIPv4 failed: %v", err)
	}

	if ip.Version != 4 {
		t.Errorf("Expected version 4, got %d", ip.Version)
	}
	if ip.Protocol != ProtocolDCCP {
		t.Errorf("Expected protocol 33, got %d", ip.Protocol)
	}
	if ip.TTL != 64 {
		t.Errorf("Expected TTL 64, got %d", ip.TTL)
	}

	// Declared payload length comes from Total Length, not from capture.
	if ip.PayloadLen != 12 {
		t.Errorf("Expected PayloadLen 12, got %d", ip.PayloadLen)
	}
	if len(payload) != 4 {
		t.Errorf("Expected captured payload length 4, got %d", len(payload))
	}

	expectedSrcIP := netip.MustParseAddr("192.168.1.1")
	if ip.SrcIP != expectedSrcIP {
		t.Errorf("Expected SrcIP %v, got %v", expectedSrcIP, ip.SrcIP)
	}
	expectedDstIP := netip.MustParseAddr("192.168.1.2")
	if ip.DstIP != expectedDstIP {
		t.Errorf("Expected DstIP %v, got %v", expectedDstIP, ip.DstIP)
	}
}

func TestDecodeIPv4BogusTotalLength(t *testing.T) {
	data := []byte{
		0x45, 0x00,
		0x00, 0x10, // Total Length 16 < 20-byte header
		0x12, 0x34, 0x00, 0x00,
		0x40, 33, 0x00, 0x00,
		192, 168, 1, 1,
		192, 168, 1, 2,
	}

	_, _, err := decodeIPv4(data)
	if !errors.Is(err, core.ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestDecodeIPv6Basic(t *testing.T) {
	// Minimal IPv6 header (40 bytes)
	data := make([]byte, 40+4)

	data[0] = 0x60 // Version 6

	// Payload Length: declared 16, captured 4
	data[4], data[5] = 0x00, 0x10

	data[6] = 33 // Next Header: DCCP
	data[7] = 64 // Hop Limit

	copy(data[8:24], []byte{
		0x20, 0x01, 0x0d, 0xb8, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
	})
	copy(data[24:40], []byte{
		0x20, 0x01, 0x0d, 0xb8, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02,
	})

	data[40], data[41], data[42], data[43] = 0x01, 0x02, 0x03, 0x04

	ip, payload, err := decodeIPv6(data)
	if err != nil {
		t.Fatalf("decodeIPv6 failed: %v", err)
	}

	if ip.Version != 6 {
		t.Errorf("Expected version 6, got %d", ip.Version)
	}
	if ip.Protocol != ProtocolDCCP {
		t.Errorf("Expected protocol 33, got %d", ip.Protocol)
	}
	if ip.PayloadLen != 16 {
		t.Errorf("Expected PayloadLen 16, got %d", ip.PayloadLen)
	}
	if len(payload) != 4 {
		t.Errorf("Expected captured payload length 4, got %d", len(payload))
	}

	expectedSrcIP := netip.MustParseAddr("2001:db8::1")
	if ip.SrcIP != expectedSrcIP {
		t.Errorf("Expected SrcIP %v, got %v", expectedSrcIP, ip.SrcIP)
	}
}

func TestDecodeIPTooShort(t *testing.T) {
	data := []byte{0x45, 0x00, 0x00} // Too short

	_, _, err := decodeIP(data)
	if err == nil {
		t.Error("Expected error for too short packet, got nil")
	}
}

func TestDecodeIPUnsupportedVersion(t *testing.T) {
	data := make([]byte, 20)
	data[0] = 0x70 // Version 7 (invalid)

	_, _, err := decodeIP(data)
	if err == nil {
		t.Error("Expected error for unsupported IP version, got nil")
	}
}

func TestDecodeIPv4LaterFragmentSkipped(t *testing.T) {
	// Fragment offset 8: no transport header present
	data := []byte{
		0x45, 0x00, 0x00, 0x20,
		0x12, 0x34,
		0x00, 0x01, // Fragment Offset = 1 (8 bytes)
		0x40, 33, 0x00, 0x00,
		192, 168, 1, 1,
		192, 168, 1, 2,
		0x01, 0x02, 0x03, 0x04,
	}

	_, _, err := decodeIPv4(data)
	if !errors.Is(err, core.ErrUnsupportedProto) {
		t.Errorf("Expected ErrUnsupportedProto for later fragment, got %v", err)
	}
}

func TestDecodeIPv4FirstFragmentDecoded(t *testing.T) {
	// MF set but offset 0: the transport header is present
	data := []byte{
		0x45, 0x00, 0x00, 0x20,
		0x12, 0x34,
		0x20, 0x00, // MF=1, Fragment Offset = 0
		0x40, 33, 0x00, 0x00,
		192, 168, 1, 1,
		192, 168, 1, 2,
		0x01, 0x02, 0x03, 0x04,
	}

	_, payload, err := decodeIPv4(data)
	if err != nil {
		t.Fatalf("decodeIPv4 failed: %v", err)
	}
	if len(payload) != 4 {
		t.Errorf("Expected captured payload length 4, got %d", len(payload))
	}
}

func BenchmarkDecodeIPv4(b *testing.B) {
	data := []byte{
		0x45, 0x00, 0x00, 0x20,
		0x12, 0x34, 0x00, 0x00,
		0x40, 33, 0x00, 0x00,
		192, 168, 1, 1,
		192, 168, 1, 2,
		0x01, 0x02, 0x03, 0x04,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, err := decodeIPv4(data)
		if err != nil {
			b.Fatal(err)
		}
	}
}
