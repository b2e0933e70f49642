// Package source abstracts where captured frames come from: a pcap file for
// offline inspection or an AF_PACKET socket for live capture.
package source

import (
	"context"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Source yields raw link-layer frames one at a time.
//
// Start must be called before ReadPacket. File-backed sources signal
// exhaustion with io.EOF; live sources block until a frame arrives or the
// poll times out.
type Source interface {
	Start(ctx context.Context) error
	ReadPacket() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
	Stop() error
}
