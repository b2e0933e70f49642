// Package core defines core types with zero external dependencies.
package core

import "net/netip"

// EthernetHeader represents L2 Ethernet frame header.
type EthernetHeader struct {
	SrcMAC    [6]byte
	DstMAC    [6]byte
	EtherType uint16   // 0x0800=IPv4, 0x86DD=IPv6, 0x8100=VLAN
	VLANs     []uint16 // 0~2 VLAN IDs (QinQ scenarios have 2)
}

// IPHeader represents the enclosing L3 IP header (IPv4/IPv6).
// It is the network-layer reference handed to the DCCP printer: it supplies
// addressing for display and the pseudo-header inputs for checksum
// verification.
type IPHeader struct {
	Version  uint8
	SrcIP    netip.Addr
	DstIP    netip.Addr
	Protocol uint8 // DCCP=33
	TTL      uint8
	// PayloadLen is the transport payload length declared by the IP layer.
	// It may exceed the number of bytes actually captured.
	PayloadLen uint16
}
