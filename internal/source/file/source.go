// Package file reads frames from a pcap capture file.
package file

import (
	"context"
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"firestige.xyz/strix/internal/core"
)

// Source replays a pcap file frame by frame.
type Source struct {
	path   string
	handle *pcap.Handle
}

// New creates a file source for path. The file is opened on Start.
func New(path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("strix: pcap path is required")
	}
	return &Source{path: path}, nil
}

func (s *Source) Start(ctx context.Context) error {
	handle, err := pcap.OpenOffline(s.path)
	if err != nil {
		return fmt.Errorf("open pcap file %s: %w", s.path, err)
	}
	s.handle = handle
	return nil
}

// ReadPacket returns the next frame, or io.EOF when the file is exhausted.
func (s *Source) ReadPacket() ([]byte, gopacket.CaptureInfo, error) {
	if s.handle == nil {
		return nil, gopacket.CaptureInfo{}, core.ErrSourceNotStarted
	}

	data, ci, err := s.handle.ReadPacketData()
	if err != nil {
		if err == io.EOF {
			return nil, gopacket.CaptureInfo{}, io.EOF
		}
		return nil, gopacket.CaptureInfo{}, fmt.Errorf("read packet: %w", err)
	}
	return data, ci, nil
}

func (s *Source) LinkType() layers.LinkType {
	if s.handle == nil {
		return layers.LinkTypeEthernet
	}
	return s.handle.LinkType()
}

func (s *Source) Stop() error {
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	return nil
}
