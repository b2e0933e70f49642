// Package inspect drives the capture loop: frames come from a source, DCCP
// datagrams are rendered by the printer, and one line per datagram goes to
// the sink.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket/layers"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/core/decoder"
	"firestige.xyz/strix/internal/dccp"
	"firestige.xyz/strix/internal/log"
	"firestige.xyz/strix/internal/metrics"
	"firestige.xyz/strix/internal/sink"
	"firestige.xyz/strix/internal/source"
)

type decodeFunc func([]byte) (core.IPHeader, []byte, error)

// Inspector reads frames from one source until it is exhausted or the
// context is cancelled. A decode failure never stops the run; only source
// and sink errors do.
type Inspector struct {
	src     source.Source
	printer *dccp.Printer
	out     sink.Sink
	name    string
	logger  log.Logger
}

// New creates an inspector. name labels this source in metrics and logs,
// typically "file" or the capture device.
func New(src source.Source, printer *dccp.Printer, out sink.Sink, name string) *Inspector {
	return &Inspector{
		src:     src,
		printer: printer,
		out:     out,
		name:    name,
		logger:  log.GetLogger().WithField("source", name),
	}
}

// Run starts the source and processes frames until io.EOF or cancellation.
// The source is stopped on return; the sink stays open for the caller.
func (in *Inspector) Run(ctx context.Context) error {
	if err := in.src.Start(ctx); err != nil {
		return err
	}
	defer in.src.Stop()

	decode := in.frameDecoder()
	in.logger.Infof("inspection started, link type %s", in.src.LinkType())

	for {
		select {
		case <-ctx.Done():
			in.logger.Info("inspection cancelled")
			return ctx.Err()
		default:
		}

		data, _, err := in.src.ReadPacket()
		switch {
		case errors.Is(err, io.EOF):
			in.logger.Info("capture exhausted")
			return nil
		case errors.Is(err, core.ErrReadTimeout):
			continue
		case err != nil:
			return fmt.Errorf("read packet: %w", err)
		}

		metrics.FramesTotal.WithLabelValues(in.name).Inc()
		if err := in.handleFrame(decode, data); err != nil {
			return err
		}
	}
}

// handleFrame renders one frame. The returned error is a sink failure;
// decode failures are counted and logged only.
func (in *Inspector) handleFrame(decode decodeFunc, data []byte) error {
	ip, seg, err := decode(data)
	if err != nil {
		reason := metrics.SkipReasonFrameError
		if errors.Is(err, core.ErrUnsupportedProto) {
			reason = metrics.SkipReasonNotIP
		}
		metrics.FramesSkippedTotal.WithLabelValues(in.name, reason).Inc()
		if in.logger.IsDebugEnabled() {
			in.logger.WithError(err).Debug("frame skipped")
		}
		return nil
	}
	if ip.Protocol != decoder.ProtocolDCCP {
		metrics.FramesSkippedTotal.WithLabelValues(in.name, metrics.SkipReasonNotDCCP).Inc()
		return nil
	}

	start := time.Now()
	res, err := in.printer.Datagram(seg, &ip, int(ip.PayloadLen))
	metrics.DecodeSeconds.Observe(time.Since(start).Seconds())

	metrics.DatagramsTotal.WithLabelValues(in.name).Inc()
	if err != nil {
		metrics.DatagramsInvalidTotal.WithLabelValues(in.name, failureReason(err)).Inc()
		if in.logger.IsDebugEnabled() {
			in.logger.WithError(err).Debugf("invalid datagram %s > %s", ip.SrcIP, ip.DstIP)
		}
	}
	if res.ChecksumMismatch {
		metrics.ChecksumMismatchTotal.WithLabelValues(in.name).Inc()
	}

	if err := in.out.Emit(res.Line); err != nil {
		return fmt.Errorf("emit line: %w", err)
	}
	return nil
}

// frameDecoder picks the decode entry point for the source's link type.
func (in *Inspector) frameDecoder() decodeFunc {
	switch in.src.LinkType() {
	case layers.LinkTypeRaw, layers.LinkTypeIPv4, layers.LinkTypeIPv6:
		return decoder.DecodeIP
	case layers.LinkTypeEthernet:
		return decoder.DecodeFrame
	default:
		in.logger.Warnf("unknown link type %s, assuming ethernet", in.src.LinkType())
		return decoder.DecodeFrame
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, core.ErrTruncated):
		return "truncated"
	case errors.Is(err, core.ErrTooShort):
		return "too_short"
	default:
		return "malformed"
	}
}
