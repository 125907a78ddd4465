package peter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"
)

// DecryptV2 reads a V2 ciphertext from in, writes the recovered
// plaintext to out, and returns the sender's static public key learned
// from the handshake. If expectedSender is non-nil, the learned key
// must match it or decryption fails with ErrSenderMismatch.
func DecryptV2(out io.Writer, in io.Reader, localPriv, expectedSender []byte) ([]byte, error) {
	session, handshakeBuf, err := readHandshake(in, localPriv, PrologueV2)
	if err != nil {
		return nil, err
	}
	defer releaseBuffer(handshakeBuf)

	cipherBuf := acquireBuffer(MaxMessageLength)
	defer releaseBuffer(cipherBuf)

	for {
		n, err := readRecord(in, cipherBuf.B)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: end of input before a terminal record, ciphertext may be cropped", ErrTruncated)
		}

		plain, err := session.TransportRead(cipherBuf.B[:n])
		if err != nil {
			return nil, err
		}

		marker, payload, err := unframeV2(plain)
		if err != nil {
			return nil, err
		}

		if _, err := out.Write(payload); err != nil {
			return nil, fmt.Errorf("%w: write output: %w", ErrIO, err)
		}

		if marker == MarkerEnd {
			break
		}
	}

	if err := checkNoTrailingData(in); err != nil {
		return nil, err
	}

	return verifySender(session, expectedSender)
}

// DecryptV1 reads a V1 ciphertext from in, writes the recovered
// plaintext to out, and returns the sender's static public key.
func DecryptV1(out io.Writer, in io.Reader, localPriv, expectedSender []byte) ([]byte, error) {
	session, handshakeBuf, err := readHandshake(in, localPriv, PrologueV1)
	if err != nil {
		return nil, err
	}
	defer releaseBuffer(handshakeBuf)

	lengthCiphertext := make([]byte, V1LengthMarkerSize)
	if _, err := io.ReadFull(in, lengthCiphertext); err != nil {
		return nil, fmt.Errorf("%w: read length marker: %w", ErrIO, err)
	}
	lengthPlain, err := session.TransportRead(lengthCiphertext)
	if err != nil {
		return nil, err
	}
	declared, err := decodeLengthMarker(lengthPlain)
	if err != nil {
		return nil, err
	}

	cipherBuf := acquireBuffer(MaxMessageLength)
	defer releaseBuffer(cipherBuf)

	var total uint64
	for total < declared {
		n, err := readRecord(in, cipherBuf.B)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: end of input before declared length (%d/%d bytes), ciphertext may be cropped", ErrTruncated, total, declared)
		}

		plain, err := session.TransportRead(cipherBuf.B[:n])
		if err != nil {
			return nil, err
		}

		total += uint64(len(plain))
		if total > declared {
			return nil, fmt.Errorf("%w: decrypted payload exceeds declared length (%d > %d)", ErrProtocolViolation, total, declared)
		}
		if _, err := out.Write(plain); err != nil {
			return nil, fmt.Errorf("%w: write output: %w", ErrIO, err)
		}
	}

	if err := checkNoTrailingData(in); err != nil {
		return nil, err
	}

	return verifySender(session, expectedSender)
}

// readHandshake reads the fixed HeaderLength handshake message, builds
// a responder Session, validates it, and transitions into transport
// mode. The caller owns the returned buffer and must release it.
func readHandshake(in io.Reader, localPriv []byte, prologue string) (*Session, *bytebufferpool.ByteBuffer, error) {
	buf := acquireBuffer(HeaderLength)
	if _, err := io.ReadFull(in, buf.B); err != nil {
		releaseBuffer(buf)
		return nil, nil, fmt.Errorf("%w: read handshake message: %w", ErrIO, err)
	}

	session, err := NewResponder(localPriv, []byte(prologue))
	if err != nil {
		releaseBuffer(buf)
		return nil, nil, err
	}
	if _, err := session.HandshakeRead(buf.B); err != nil {
		releaseBuffer(buf)
		return nil, nil, err
	}
	if err := session.IntoTransport(); err != nil {
		releaseBuffer(buf)
		return nil, nil, err
	}
	return session, buf, nil
}

// readRecord issues a single read of up to len(buf) bytes, the
// canonical one-record-per-call convention for on-disk, non-self-
// delimited records (see the stream pipeline's reader obligation).
func readRecord(in io.Reader, buf []byte) (int, error) {
	n, err := in.Read(buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("%w: read record: %w", ErrIO, err)
	}
	return n, nil
}

// checkNoTrailingData issues one more read after the terminal record
// and fails if it returns any bytes.
func checkNoTrailingData(in io.Reader) error {
	var tail [1]byte
	n, err := in.Read(tail[:])
	if err != nil && err != io.EOF {
		return fmt.Errorf("%w: read after end of message: %w", ErrIO, err)
	}
	if n != 0 {
		return fmt.Errorf("%w: data found after end of message", ErrTrailingData)
	}
	return nil
}

// verifySender extracts the sender's identity from a completed
// session and, if expectedSender is non-nil, checks it matches.
func verifySender(session *Session, expectedSender []byte) ([]byte, error) {
	remote := session.RemoteStatic()
	if expectedSender != nil && !bytes.Equal(remote, expectedSender) {
		return nil, fmt.Errorf("%w", ErrSenderMismatch)
	}
	return remote, nil
}
