package peter

import (
	"fmt"
	"io"
)

// EncryptV2 streams plaintext from in to out as a V2 (marker-framed)
// ciphertext: a 96-byte handshake message followed by one or more
// transport records, the last of which carries MARKER_END. localPriv
// authenticates the sender; remotePub selects the recipient.
func EncryptV2(out io.Writer, in io.Reader, localPriv, remotePub []byte) error {
	session, err := NewInitiator(localPriv, remotePub, []byte(PrologueV2))
	if err != nil {
		return err
	}
	if err := writeHandshake(out, session); err != nil {
		return err
	}

	plain := acquireBuffer(1 + MaxPayloadLength)
	defer releaseBuffer(plain)

	for {
		n, err := readChunk(in, plain.B[markerLength:])
		if err != nil {
			return err
		}

		marker, body := frameV2(plain.B, n)

		ciphertext, err := session.TransportWrite(body)
		if err != nil {
			return err
		}
		if err := writeRecord(out, ciphertext); err != nil {
			return err
		}

		if marker == MarkerEnd {
			return nil
		}
	}
}

// EncryptV1 streams plaintext from in to out as a V1 (legacy
// length-prefixed) ciphertext. Because the wire format declares the
// total payload length up front, the entire input is buffered in
// memory before any record is written.
func EncryptV1(out io.Writer, in io.Reader, localPriv, remotePub []byte) error {
	session, err := NewInitiator(localPriv, remotePub, []byte(PrologueV1))
	if err != nil {
		return err
	}
	if err := writeHandshake(out, session); err != nil {
		return err
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("%w: read input: %w", ErrIO, err)
	}

	lengthCiphertext, err := session.TransportWrite(encodeLengthMarker(uint64(len(data))))
	if err != nil {
		return err
	}
	if err := writeRecord(out, lengthCiphertext); err != nil {
		return err
	}

	for len(data) > 0 {
		n := min(len(data), MaxPayloadLengthV1)
		ciphertext, err := session.TransportWrite(data[:n])
		if err != nil {
			return err
		}
		if err := writeRecord(out, ciphertext); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// writeHandshake writes the single outbound handshake message and
// transitions the session into transport mode.
func writeHandshake(out io.Writer, session *Session) error {
	handshake, err := session.HandshakeWrite(nil)
	if err != nil {
		return err
	}
	if err := writeRecord(out, handshake); err != nil {
		return err
	}
	return session.IntoTransport()
}

// writeRecord issues a record's bytes as a single contiguous write, as
// required by the stream pipeline's writer obligation: records are
// never interleaved on the wire.
func writeRecord(out io.Writer, data []byte) error {
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("%w: write record: %w", ErrIO, err)
	}
	return nil
}

// readChunk fills buf via io.ReadFull. A short or empty final read (n
// < len(buf)) is reported with n and a nil error: io.EOF and
// io.ErrUnexpectedEOF are expected terminal conditions for chunked
// plaintext input, not failures.
func readChunk(in io.Reader, buf []byte) (n int, err error) {
	n, err = io.ReadFull(in, buf)
	switch {
	case err == nil, err == io.EOF, err == io.ErrUnexpectedEOF:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: read input: %w", ErrIO, err)
	}
}
