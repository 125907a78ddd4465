package peter

import "fmt"

// V2 wire format constants. These are fixed for wire compatibility and
// must never change independently of a new prologue/version.
const (
	// MaxMessageLength is the largest ciphertext record allowed on
	// disk, AEAD tag included.
	MaxMessageLength = 65535

	// OverheadPerMessage is the AEAD tag size added to every record.
	OverheadPerMessage = 16

	// maxPayloadBufferLength is the largest plaintext record body,
	// marker byte included.
	maxPayloadBufferLength = MaxMessageLength - OverheadPerMessage

	// MaxPayloadLength is the largest plaintext chunk a single V2
	// record can carry, marker byte excluded.
	MaxPayloadLength = maxPayloadBufferLength - 1

	markerLength = 1

	// MarkerNormal flags a full, non-terminal V2 record.
	MarkerNormal byte = 0x01
	// MarkerEnd flags the terminal V2 record.
	MarkerEnd byte = 0x02

	// PrologueV2 is the handshake prologue bound into the wire
	// format. A V1 file read by a V2 decoder (or vice versa) fails
	// handshake authentication because the prologue differs.
	PrologueV2 = "PETER V2"
)

// frameV2 builds a complete V2 record body (marker + payload) in buf,
// which must be sized by the caller to maxPayloadBufferLength. n is
// the number of plaintext bytes read from input into
// buf[markerLength:]. The record is NORMAL iff the
// read filled the buffer to MaxPayloadLength, otherwise it is END: an
// EOF at any input length, including zero and exact multiples of
// MaxPayloadLength, produces exactly one terminal record.
func frameV2(buf []byte, n int) (marker byte, body []byte) {
	if n == MaxPayloadLength {
		marker = MarkerNormal
	} else {
		marker = MarkerEnd
	}
	buf[0] = marker
	return marker, buf[:markerLength+n]
}

// unframeV2 splits a decrypted V2 record body into its marker and
// payload. It rejects anything shorter than the marker byte and any
// marker other than NORMAL or END, and enforces the sizing invariants
// from the wire format: a NORMAL record MUST carry exactly
// MaxPayloadLength payload bytes, an END record strictly fewer.
func unframeV2(body []byte) (marker byte, payload []byte, err error) {
	if len(body) < markerLength {
		return 0, nil, fmt.Errorf("%w: record shorter than marker byte", ErrProtocolViolation)
	}
	marker = body[0]
	payload = body[markerLength:]
	switch marker {
	case MarkerNormal:
		if len(payload) != MaxPayloadLength {
			return 0, nil, fmt.Errorf("%w: normal record carries %d payload bytes, want %d", ErrProtocolViolation, len(payload), MaxPayloadLength)
		}
	case MarkerEnd:
		if len(payload) >= MaxPayloadLength {
			return 0, nil, fmt.Errorf("%w: end record carries %d payload bytes, want < %d", ErrProtocolViolation, len(payload), MaxPayloadLength)
		}
	default:
		return 0, nil, fmt.Errorf("%w: unknown record marker 0x%02x", ErrProtocolViolation, marker)
	}
	return marker, payload, nil
}
