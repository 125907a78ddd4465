package peter

import "errors"

// Sentinel errors, one per discriminated failure kind. Callers classify
// a returned error with errors.Is against these; wrapping via
// fmt.Errorf("%w: ...", ErrX) adds phase/path context without ever
// including key material in the message.
var (
	// ErrIO signals that an underlying read or write failed.
	ErrIO = errors.New("peter: i/o error")

	// ErrBadKeyEncoding signals a base64 decode failure or a decoded
	// key of the wrong length.
	ErrBadKeyEncoding = errors.New("peter: bad key encoding")

	// ErrHandshakeFailed signals that the Noise handshake message was
	// rejected: wrong recipient key, wrong version prologue, or
	// corruption. Fatal for the session, never retried.
	ErrHandshakeFailed = errors.New("peter: handshake failed")

	// ErrRecordVerification signals an AEAD tag mismatch on a
	// transport record.
	ErrRecordVerification = errors.New("peter: record verification failed")

	// ErrProtocolViolation signals an unknown V2 marker byte or a V1
	// length mismatch.
	ErrProtocolViolation = errors.New("peter: protocol violation")

	// ErrTruncated signals that decryption reached end-of-stream
	// without a terminal record (V2) or with fewer payload bytes than
	// declared (V1).
	ErrTruncated = errors.New("peter: truncated ciphertext")

	// ErrTrailingData signals bytes found after the terminal V2
	// record, or after an otherwise-complete V1 message.
	ErrTrailingData = errors.New("peter: trailing data after end of message")

	// ErrSenderMismatch signals that the caller-supplied expected
	// sender public key did not match the identity learned from the
	// handshake.
	ErrSenderMismatch = errors.New("peter: sender public key mismatch")

	// ErrUsage signals a CLI-boundary usage violation (see cmd/peter).
	ErrUsage = errors.New("peter: usage error")
)
