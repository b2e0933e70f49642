// Package utils holds small helpers shared by the capture sources.
package utils

import (
	"fmt"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"golang.org/x/net/bpf"
)

// CompileBpf compiles a pcap filter expression into raw BPF instructions
// suitable for attaching to an AF_PACKET socket.
func CompileBpf(filter string, snapLen int) ([]bpf.RawInstruction, error) {
	pcapBpf, err := pcap.CompileBPFFilter(layers.LinkTypeEthernet, snapLen, filter)
	if err != nil {
		return nil, fmt.Errorf("compile BPF filter %q: %w", filter, err)
	}

	raw := make([]bpf.RawInstruction, len(pcapBpf))
	for i, ins := range pcapBpf {
		raw[i] = bpf.RawInstruction{Op: ins.Code, Jt: ins.Jt, Jf: ins.Jf, K: ins.K}
	}
	return raw, nil
}
