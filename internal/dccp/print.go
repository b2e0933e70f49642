package dccp

import (
	"fmt"
	"net/netip"
	"strings"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/core/decoder"
	"firestige.xyz/strix/internal/resolve"
	"firestige.xyz/strix/internal/wire"
)

// InvalidMarker is the uniform text a datagram renders to when its decode
// fails. No partial field list ever reaches the sink.
const InvalidMarker = "(invalid)"

// Printer renders captured DCCP datagrams as text. The zero value renders
// terse numeric output; it is safe for concurrent use, holding no state
// across datagrams.
type Printer struct {
	// Verbosity selects detail: 0 prints addresses, type, and
	// type-specific fields; 1 adds CCVal/CsCov and checksum
	// verification; 2 and above adds the sequence number and the
	// option list.
	Verbosity int
	// Quiet suppresses everything but the payload byte count.
	Quiet bool
	// Resolver renders addresses; nil means numeric.
	Resolver resolve.Resolver
}

// Result is the outcome of rendering one datagram.
type Result struct {
	Line string
	// ChecksumMismatch is set when verification ran and the declared
	// checksum did not match the recomputed one. A mismatch is a
	// diagnostic, not a decode failure.
	ChecksumMismatch bool
}

// Datagram decodes one captured DCCP segment and renders its summary line.
//
// data holds the bytes actually captured, starting at the DCCP header;
// declaredLen is the payload length the IP layer declared, which may exceed
// len(data). Captured bytes beyond declaredLen (link-layer padding) are
// ignored. On any structural failure the returned line is the uniform
// invalid marker and err is the failure (core.ErrTruncated, core.ErrTooShort
// or core.ErrMalformed); err is nil on success.
func (p *Printer) Datagram(data []byte, ip *core.IPHeader, declaredLen int) (Result, error) {
	// Captured bytes past the IP-declared payload end are frame padding,
	// not part of the datagram; never decode them.
	if declaredLen >= 0 && len(data) > declaredLen {
		data = data[:declaredLen]
	}
	buf := wire.NewBuffer(data)
	var b strings.Builder
	var res Result

	h, err := decodeHeader(buf, declaredLen)
	if err != nil {
		return Result{Line: InvalidMarker}, err
	}

	fmt.Fprintf(&b, "%s.%d > %s.%d: %s ",
		p.addr(ip.SrcIP), h.SrcPort,
		p.addr(ip.DstIP), h.DstPort,
		h.Type)

	headerLen := int(h.DataOffset) * 4

	if p.Quiet {
		if declaredLen < headerLen {
			return Result{Line: InvalidMarker}, core.ErrMalformed
		}
		fmt.Fprintf(&b, "%d", declaredLen-headerLen)
		res.Line = b.String()
		return res, nil
	}

	if p.Verbosity >= 1 {
		p.printVerbose(&b, buf, &h, ip, declaredLen, &res)
	}

	ext, err := decodeTypeExtension(buf, &h, declaredLen)
	if err != nil {
		return Result{Line: InvalidMarker}, err
	}
	if ext.hasService {
		fmt.Fprintf(&b, "(service=%d) ", ext.serviceCode)
	}
	if ext.hasReset {
		fmt.Fprintf(&b, "(code=%s) ", resetCodeString(ext.resetCode))
	}

	if h.Type.hasAckNo() {
		ack, err := decodeAckNo(buf, &h)
		if err != nil {
			return Result{Line: InvalidMarker}, err
		}
		fmt.Fprintf(&b, "(ack=%d) ", ack)
	}

	if p.Verbosity < 2 {
		res.Line = strings.TrimRight(b.String(), " ")
		return res, nil
	}

	fmt.Fprintf(&b, "seq %d", h.SeqNo)

	// The declared header boundary must not undercut the fixed header;
	// options are only walked in the gap above it.
	if headerLen < ext.fixedLen {
		return Result{Line: InvalidMarker}, core.ErrMalformed
	}
	if headerLen > ext.fixedLen {
		if err := decodeOptions(buf, &b, ext.fixedLen, headerLen-ext.fixedLen); err != nil {
			return Result{Line: InvalidMarker}, err
		}
	}

	res.Line = strings.TrimRight(b.String(), " ")
	return res, nil
}

// printVerbose appends the CCVal/CsCov group and, when the full coverage
// window was captured, the checksum verdict. A wrong checksum is annotated
// inline and never aborts the decode.
func (p *Printer) printVerbose(b *strings.Builder, buf wire.Buffer, h *Header, ip *core.IPHeader, declaredLen int, res *Result) {
	fmt.Fprintf(b, "(CCVal %d, CsCov %d", h.CCVal, h.CsCov)

	cov := coverageLength(h.CsCov, h.DataOffset, declaredLen)
	if buf.Has(0, cov) && (ip.Version == 4 || ip.Version == 6) {
		window, _ := buf.Bytes(0, cov)
		computed := decoder.TransportChecksum(ip, window, uint32(declaredLen))

		fmt.Fprintf(b, ", cksum 0x%04x ", h.Checksum)
		if computed != 0 {
			fmt.Fprintf(b, "(incorrect -> 0x%04x)", decoder.ChecksumShouldBe(h.Checksum, computed))
			res.ChecksumMismatch = true
		} else {
			b.WriteString("(correct)")
		}
	}
	b.WriteString(") ")
}

func (p *Printer) addr(a netip.Addr) string {
	if p.Resolver == nil {
		return a.String()
	}
	return p.Resolver.Addr(a)
}
