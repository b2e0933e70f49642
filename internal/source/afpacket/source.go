// Package afpacket captures live frames from a network interface through an
// AF_PACKET TPACKET_V3 ring buffer.
package afpacket

import (
	"context"
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/afpacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/utils"
)

// Config holds the capture parameters for one interface.
type Config struct {
	Device       string `mapstructure:"device"`
	SnapLen      int    `mapstructure:"snap_len"`
	BufferSizeMB int    `mapstructure:"buffer_size_mb"`
	TimeoutMs    int    `mapstructure:"timeout_ms"`
	FanoutID     uint16 `mapstructure:"fanout_id"`
	Filter       string `mapstructure:"filter"`
}

// Source reads frames from one AF_PACKET socket.
type Source struct {
	handle *afpacket.TPacket

	device    string
	snapLen   int
	frameSize int
	blockSize int
	numBlocks int
	timeoutMs int
	fanoutID  uint16
	filter    string
}

// New validates cfg and sizes the ring buffer. The socket is opened on Start.
func New(cfg Config) (*Source, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("strix: capture device is required")
	}
	frameSize, blockSize, numBlocks, err := recomputeSize(cfg.BufferSizeMB, cfg.SnapLen, os.Getpagesize())
	if err != nil {
		return nil, err
	}
	return &Source{
		device:    cfg.Device,
		snapLen:   cfg.SnapLen,
		frameSize: frameSize,
		blockSize: blockSize,
		numBlocks: numBlocks,
		timeoutMs: cfg.TimeoutMs,
		fanoutID:  cfg.FanoutID,
		filter:    cfg.Filter,
	}, nil
}

func (s *Source) Start(ctx context.Context) error {
	tp, err := afpacket.NewTPacket(
		afpacket.OptInterface(s.device),
		afpacket.OptFrameSize(s.frameSize),
		afpacket.OptBlockSize(s.blockSize),
		afpacket.OptNumBlocks(s.numBlocks),
		afpacket.OptPollTimeout(s.timeoutMs),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return fmt.Errorf("open af_packet socket on %s: %w", s.device, err)
	}

	if s.fanoutID > 0 {
		if err := tp.SetFanout(afpacket.FanoutHashWithDefrag, s.fanoutID); err != nil {
			tp.Close()
			return fmt.Errorf("set fanout: %w", err)
		}
	}

	if s.filter != "" {
		raw, err := utils.CompileBpf(s.filter, s.snapLen)
		if err != nil {
			tp.Close()
			return err
		}
		if err := tp.SetBPF(raw); err != nil {
			tp.Close()
			return fmt.Errorf("attach BPF filter: %w", err)
		}
	}

	s.handle = tp
	return nil
}

func (s *Source) ReadPacket() ([]byte, gopacket.CaptureInfo, error) {
	if s.handle == nil {
		return nil, gopacket.CaptureInfo{}, core.ErrSourceNotStarted
	}
	data, ci, err := s.handle.ReadPacketData()
	if err == afpacket.ErrTimeout {
		return nil, ci, core.ErrReadTimeout
	}
	return data, ci, err
}

func (s *Source) LinkType() layers.LinkType {
	return layers.LinkTypeEthernet
}

func (s *Source) Stop() error {
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	return nil
}
