// Package dccp decodes the DCCP wire format (RFC 4340) from captured bytes
// into a one-line human-readable summary.
//
// Decoding is pure and stateless per datagram: a function of the captured
// buffer, the length declared by the IP layer, and the enclosing IP header.
// Declared lengths are never trusted — every read goes through the
// bounds-checked wire.Buffer, and a field access past the capture aborts the
// datagram with core.ErrTruncated. Declared-length violations of protocol
// rules abort with core.ErrTooShort or core.ErrMalformed. All three map to
// the uniform invalid marker at the output; none of them is fatal to the
// inspection session.
package dccp

import (
	"fmt"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/wire"
)

// Generic header sizes. The X bit in the flags byte selects the form:
// X=0 carries a 24-bit sequence number in a 12-byte header, X=1 a 48-bit
// sequence number in a 16-byte header with one extra reserved byte.
const (
	hdrShortLen    = 12
	hdrExtendedLen = 16
)

// Generic header field offsets, common to both forms.
const (
	offSrcPort    = 0
	offDstPort    = 2
	offDataOffset = 4
	offCCValCsCov = 5
	offChecksum   = 6
	offFlags      = 8
	offSeqShort   = 9  // 24-bit sequence number (X=0)
	offSeqExt     = 10 // 48-bit sequence number after a reserved byte (X=1)
)

// PacketType is the 4-bit packet type from the generic header flags byte.
type PacketType uint8

const (
	PktRequest PacketType = iota
	PktResponse
	PktData
	PktAck
	PktDataAck
	PktCloseReq
	PktClose
	PktReset
	PktSync
	PktSyncAck
)

var packetTypeNames = []string{
	"DCCP-Request",
	"DCCP-Response",
	"DCCP-Data",
	"DCCP-Ack",
	"DCCP-DataAck",
	"DCCP-CloseReq",
	"DCCP-Close",
	"DCCP-Reset",
	"DCCP-Sync",
	"DCCP-SyncAck",
}

func (t PacketType) String() string {
	if int(t) < len(packetTypeNames) {
		return packetTypeNames[t]
	}
	return fmt.Sprintf("packet-type-%d", uint8(t))
}

// valid reports whether t is one of the ten assigned packet types.
// Types 10-15 are reserved.
func (t PacketType) valid() bool {
	return int(t) < len(packetTypeNames)
}

// Reset codes (RFC 4340 §5.6). Values 12-127 are reserved,
// 128-255 CCID-specific; both render as invalid.
var resetCodeNames = []string{
	"unspecified",
	"closed",
	"aborted",
	"no_connection",
	"packet_error",
	"option_error",
	"mandatory_error",
	"connection_refused",
	"bad_service_code",
	"too_busy",
	"bad_init_cookie",
	"aggression_penalty",
}

func resetCodeString(code uint8) string {
	if int(code) < len(resetCodeNames) {
		return resetCodeNames[code]
	}
	return fmt.Sprintf("reset-code-%d (invalid)", code)
}

// Header is the decoded generic DCCP header.
type Header struct {
	SrcPort    uint16
	DstPort    uint16
	DataOffset uint8 // header length in 32-bit words
	CCVal      uint8
	CsCov      uint8
	Checksum   uint16
	Extended   bool // X bit: 48-bit sequence number form
	Type       PacketType
	SeqNo      uint64
}

// BasicLen returns the generic header length for the decoded form.
func (h *Header) BasicLen() int {
	if h.Extended {
		return hdrExtendedLen
	}
	return hdrShortLen
}

// decodeHeader decodes the generic header.
//
// The sequence-number form is decided from the flags byte before the
// sequence number itself is read; every later offset depends on that
// choice. Fails core.ErrTooShort when declaredLen is below the minimal
// size for the chosen form, core.ErrTruncated when fewer bytes were
// captured than the form requires.
func decodeHeader(buf wire.Buffer, declaredLen int) (Header, error) {
	var h Header

	if declaredLen < hdrShortLen {
		return h, core.ErrTooShort
	}

	flags, err := buf.U8(offFlags)
	if err != nil {
		return h, err
	}
	h.Extended = flags&0x01 != 0
	h.Type = PacketType((flags >> 1) & 0x0F)

	if declaredLen < h.BasicLen() {
		return h, core.ErrTooShort
	}
	if !buf.Has(0, h.BasicLen()) {
		return h, core.ErrTruncated
	}

	// The fixed header is fully captured; the remaining reads cannot fail.
	h.SrcPort, _ = buf.U16(offSrcPort)
	h.DstPort, _ = buf.U16(offDstPort)
	h.DataOffset, _ = buf.U8(offDataOffset)

	ccvalCscov, _ := buf.U8(offCCValCsCov)
	h.CCVal = (ccvalCscov >> 4) & 0x0F
	h.CsCov = ccvalCscov & 0x0F

	h.Checksum, _ = buf.U16(offChecksum)

	if h.Extended {
		seq, _ := buf.U48(offSeqExt)
		h.SeqNo = seq
	} else {
		seq, _ := buf.U24(offSeqShort)
		h.SeqNo = uint64(seq)
	}

	return h, nil
}

// typeExtension is the decoded packet-type-specific fixed-header extension.
type typeExtension struct {
	fixedLen    int // generic header + extension, in bytes
	serviceCode uint32
	hasService  bool
	resetCode   uint8
	hasReset    bool
}

// Extension sizes past the generic header, by packet type (RFC 4340 §5):
// Request +4, Response +12, Data +0, Reset +12, the ack-only types +8.
const (
	extServiceLen = 4
	extAckLen     = 8
	extAckSvcLen  = 12
)

// decodeTypeExtension decodes the type-specific fixed fields following the
// generic header and computes the total fixed-header length.
func decodeTypeExtension(buf wire.Buffer, h *Header, declaredLen int) (typeExtension, error) {
	basic := h.BasicLen()
	ext := typeExtension{fixedLen: basic}

	switch h.Type {
	case PktRequest:
		ext.fixedLen += extServiceLen
		if declaredLen < ext.fixedLen {
			return ext, core.ErrTooShort
		}
		svc, err := buf.U32(basic)
		if err != nil {
			return ext, err
		}
		ext.serviceCode = svc
		ext.hasService = true

	case PktResponse:
		ext.fixedLen += extAckSvcLen
		if declaredLen < ext.fixedLen {
			return ext, core.ErrTooShort
		}
		// Service code sits after the 8-byte ack slot.
		svc, err := buf.U32(basic + extAckLen)
		if err != nil {
			return ext, err
		}
		ext.serviceCode = svc
		ext.hasService = true

	case PktData:
		// No extension.

	case PktAck, PktDataAck, PktCloseReq, PktClose, PktSync, PktSyncAck:
		ext.fixedLen += extAckLen
		if declaredLen < ext.fixedLen {
			return ext, core.ErrTooShort
		}

	case PktReset:
		ext.fixedLen += extAckSvcLen
		if declaredLen < ext.fixedLen {
			return ext, core.ErrTooShort
		}
		// 8-byte ack slot, reset code, then 3 data bytes. The whole
		// extension must be captured, not merely declared.
		if !buf.Has(basic, extAckSvcLen) {
			return ext, core.ErrTruncated
		}
		code, err := buf.U8(basic + extAckLen)
		if err != nil {
			return ext, err
		}
		ext.resetCode = code
		ext.hasReset = true

	default:
		return ext, core.ErrMalformed
	}

	return ext, nil
}

// hasAckNo reports whether the packet type carries an acknowledgement
// number: every type except Request and Data.
func (t PacketType) hasAckNo() bool {
	return t.valid() && t != PktRequest && t != PktData
}

// decodeAckNo reads the acknowledgement number located immediately after
// the generic header: a 24-bit value behind 1 reserved byte in the short
// form, a 48-bit value behind 2 reserved bytes in the extended form.
func decodeAckNo(buf wire.Buffer, h *Header) (uint64, error) {
	basic := h.BasicLen()
	if h.Extended {
		return buf.U48(basic + 2)
	}
	ack, err := buf.U24(basic + 1)
	return uint64(ack), err
}
