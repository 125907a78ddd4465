package peter

import (
	"encoding/binary"
	"fmt"
)

// V1 (legacy) wire format constants.
const (
	// PrologueV1 is the handshake prologue bound into the legacy wire
	// format.
	PrologueV1 = "PETER V1"

	// v1LengthMarkerPlainSize is the plaintext size of the length
	// marker: an 8-byte big-endian total payload length.
	v1LengthMarkerPlainSize = 8

	// V1LengthMarkerSize is the on-disk size of the encrypted length
	// marker (8 plaintext bytes + AEAD tag).
	V1LengthMarkerSize = v1LengthMarkerPlainSize + OverheadPerMessage

	// MaxPayloadLengthV1 is the largest plaintext chunk a single V1
	// record can carry. Unlike V2, V1 records carry no marker byte.
	MaxPayloadLengthV1 = MaxMessageLength - OverheadPerMessage
)

// encodeLengthMarker renders a V1 length marker's plaintext body: the
// total declared payload size as an 8-byte big-endian unsigned value.
func encodeLengthMarker(total uint64) []byte {
	buf := make([]byte, v1LengthMarkerPlainSize)
	binary.BigEndian.PutUint64(buf, total)
	return buf
}

// decodeLengthMarker parses a V1 length marker's decrypted plaintext
// body back into the declared total payload size.
func decodeLengthMarker(plain []byte) (uint64, error) {
	if len(plain) != v1LengthMarkerPlainSize {
		return 0, fmt.Errorf("%w: length marker must be %d bytes, got %d", ErrProtocolViolation, v1LengthMarkerPlainSize, len(plain))
	}
	return binary.BigEndian.Uint64(plain), nil
}
