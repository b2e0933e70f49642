package dccp

import (
	"encoding/hex"
	"fmt"
	"strings"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/wire"
)

// Option tags (RFC 4340 §5.8). Tags below 32 are single-byte options with
// no length octet; tags 32-44 carry an explicit length covering
// tag+length+payload; 45-127 are reserved; 128-255 are CCID-specific.
const (
	optPadding         = 0
	optMandatory       = 1
	optSlowReceiver    = 2
	optChangeL         = 32
	optConfirmL        = 33
	optChangeR         = 34
	optConfirmR        = 35
	optInitCookie      = 36
	optNDPCount        = 37
	optAckVectorNonce0 = 38
	optAckVectorNonce1 = 39
	optDataDropped     = 40
	optTimestamp       = 41
	optTimestampEcho   = 42
	optElapsedTime     = 43
	optDataChecksum    = 44

	optExplicitLenMin = 32  // first tag with a length octet
	optCCIDMin        = 128 // first vendor/CCID-specific tag
)

// Feature numbers carried by change/confirm options (RFC 4340 §6.4).
var featureNames = []string{
	"reserved",
	"ccid",
	"allow_short_seqno",
	"sequence_window",
	"ecn_incapable",
	"ack_ratio",
	"send_ack_vector",
	"send_ndp_count",
	"minimum_checksum_coverage",
	"check_data_checksum",
}

func featureString(n uint8) string {
	if int(n) < len(featureNames) {
		return featureNames[n]
	}
	return fmt.Sprintf("feature-number-%d (invalid)", n)
}

// optionSpec is one row of the declarative option table: the display name,
// the length rule (inclusive bounds on the full tag+length+payload size;
// maxLen 0 means unbounded), and the payload renderer. Length rules finer
// than a min/max range are enforced inside the renderer.
type optionSpec struct {
	name   string
	minLen uint8
	maxLen uint8
	render func(b *strings.Builder, data []byte) error
}

// optionTable maps every defined tag below 128 to its structural rules.
// Tags absent from the table (3-31, 45-127) are invalid; tags >= 128 are
// handled separately. Keeping the table apart from the walking loop means
// auditing or adding option kinds never touches control flow.
var optionTable = map[uint8]optionSpec{
	optPadding:         {name: "nop", minLen: 1, maxLen: 1},
	optMandatory:       {name: "mandatory", minLen: 1, maxLen: 1},
	optSlowReceiver:    {name: "slowreceiver", minLen: 1, maxLen: 1},
	optChangeL:         {name: "change_l", minLen: 4, render: renderFeature},
	optConfirmL:        {name: "confirm_l", minLen: 3, render: renderFeature},
	optChangeR:         {name: "change_r", minLen: 4, render: renderFeature},
	optConfirmR:        {name: "confirm_r", minLen: 3, render: renderFeature},
	optInitCookie:      {name: "initcookie", minLen: 3, render: renderHex},
	optNDPCount:        {name: "ndp_count", minLen: 3, maxLen: 8, render: renderDecimalOctets},
	optAckVectorNonce0: {name: "ack_vector0", minLen: 3, render: renderHex},
	optAckVectorNonce1: {name: "ack_vector1", minLen: 3, render: renderHex},
	optDataDropped:     {name: "data_dropped", minLen: 3, render: renderHex},
	optTimestamp:       {name: "timestamp", minLen: 6, maxLen: 6, render: renderU32},
	optTimestampEcho:   {name: "timestamp_echo", minLen: 6, maxLen: 10, render: renderTimestampEcho},
	optElapsedTime:     {name: "elapsed_time", minLen: 4, maxLen: 6, render: renderElapsedTime},
	optDataChecksum:    {name: "data_checksum", minLen: 6, maxLen: 6, render: renderHex},
}

// decodeOptions walks the TLV option records between the end of the type
// extension (offset start) and the declared header boundary (start+area
// bytes), appending the bracketed, comma-separated option list to b.
//
// The walk stops cleanly when the remaining area does not exceed the
// just-consumed record; any structural violation aborts the whole datagram
// decode. Total bytes consumed never exceed area.
func decodeOptions(buf wire.Buffer, b *strings.Builder, start, area int) error {
	b.WriteString(" <")

	off := start
	remaining := area
	for {
		consumed, err := decodeOption(buf, b, off, remaining)
		if err != nil {
			return err
		}
		if remaining <= consumed {
			break
		}
		remaining -= consumed
		off += consumed
		b.WriteString(", ")
	}

	b.WriteString(">")
	return nil
}

// decodeOption decodes a single option record at off and returns the number
// of bytes it occupies.
func decodeOption(buf wire.Buffer, b *strings.Builder, off, remaining int) (int, error) {
	tag, err := buf.U8(off)
	if err != nil {
		return 0, err
	}

	optlen := 1
	if tag >= optExplicitLenMin {
		l, err := buf.U8(off + 1)
		if err != nil {
			return 0, err
		}
		// The length octet covers tag+length+payload, so 2 is the floor.
		if l < 2 {
			return 0, core.ErrMalformed
		}
		optlen = int(l)
	}

	if remaining < optlen {
		return 0, core.ErrMalformed
	}

	if tag >= optCCIDMin {
		data, err := buf.Bytes(off+2, optlen-2)
		if err != nil {
			return 0, err
		}
		fmt.Fprintf(b, "CCID option %d", tag)
		renderCCID(b, data)
		return optlen, nil
	}

	spec, ok := optionTable[tag]
	if !ok {
		return 0, core.ErrMalformed
	}
	if optlen < int(spec.minLen) || (spec.maxLen != 0 && optlen > int(spec.maxLen)) {
		return 0, core.ErrMalformed
	}

	b.WriteString(spec.name)
	if spec.render != nil {
		data, err := buf.Bytes(off+2, optlen-2)
		if err != nil {
			return 0, err
		}
		if err := spec.render(b, data); err != nil {
			return 0, err
		}
	}
	return optlen, nil
}

// renderCCID renders a vendor/CCID-specific payload: a 16-bit value for
// 4-byte records, a 32-bit value for 6-byte records, raw hex otherwise.
// A payload-less record still gets the empty hex dump prefix.
func renderCCID(b *strings.Builder, data []byte) {
	switch len(data) {
	case 2:
		fmt.Fprintf(b, " %d", uint16(data[0])<<8|uint16(data[1]))
	case 4:
		fmt.Fprintf(b, " %d", be32(data))
	default:
		renderHex(b, data)
	}
}

// renderFeature renders a feature number followed by its value octets.
func renderFeature(b *strings.Builder, data []byte) error {
	b.WriteString(" ")
	b.WriteString(featureString(data[0]))
	for _, v := range data[1:] {
		fmt.Fprintf(b, " %d", v)
	}
	return nil
}

func renderHex(b *strings.Builder, data []byte) error {
	b.WriteString(" 0x")
	b.WriteString(hex.EncodeToString(data))
	return nil
}

func renderDecimalOctets(b *strings.Builder, data []byte) error {
	for _, v := range data {
		fmt.Fprintf(b, " %d", v)
	}
	return nil
}

func renderU32(b *strings.Builder, data []byte) error {
	fmt.Fprintf(b, " %d", be32(data))
	return nil
}

// renderTimestampEcho renders the 32-bit echoed timestamp, then the elapsed
// time when present: 16-bit for an 8-byte record, 32-bit for a 10-byte
// record. Record sizes 7 and 9 are structural violations.
func renderTimestampEcho(b *strings.Builder, data []byte) error {
	switch len(data) {
	case 4:
		fmt.Fprintf(b, " %d", be32(data))
	case 6:
		fmt.Fprintf(b, " %d", be32(data))
		fmt.Fprintf(b, " (elapsed time %d)", uint16(data[4])<<8|uint16(data[5]))
	case 8:
		fmt.Fprintf(b, " %d", be32(data))
		fmt.Fprintf(b, " (elapsed time %d)", be32(data[4:]))
	default:
		return core.ErrMalformed
	}
	return nil
}

// renderElapsedTime renders a 16-bit or 32-bit elapsed time; a 5-byte
// record is a structural violation.
func renderElapsedTime(b *strings.Builder, data []byte) error {
	switch len(data) {
	case 2:
		fmt.Fprintf(b, " %d", uint16(data[0])<<8|uint16(data[1]))
	case 4:
		fmt.Fprintf(b, " %d", be32(data))
	default:
		return core.ErrMalformed
	}
	return nil
}

func be32(data []byte) uint32 {
	return uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
}
