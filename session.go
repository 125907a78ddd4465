package peter

import (
	"fmt"

	"github.com/flynn/noise"
)

// HeaderLength is the fixed wire size of a single Noise X handshake
// message: e (32) + encrypted s (32+16 tag) + es MAC over empty
// payload (16) = 96 bytes.
const HeaderLength = 96

// cipherSuite is the fixed Noise cipher suite for this wire format:
// Noise_X_25519_ChaChaPoly_BLAKE2s. The X pattern transmits the
// initiator's static key encrypted under the ephemeral-static DH, so
// the responder learns the sender's identity from the single
// handshake message.
var cipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashBLAKE2s)

// Session is the per-invocation Noise X handshake/transport state.
// It progresses one-way through handshake -> transport and serves
// exactly one encrypt or decrypt call, per the single-threaded,
// synchronous concurrency model: one Session, no sharing across
// goroutines.
type Session struct {
	hs      *noise.HandshakeState
	pending *noise.CipherState // result of the single handshake message, not yet active
	cipher  *noise.CipherState // active once in transport mode

	remote    []byte
	initiator bool

	handshakeDone bool
	transport     bool
}

// NewInitiator builds a Session that will encrypt for remotePub,
// authenticating with localPriv. prologue binds the session to a wire
// format version; a cross-version prologue mismatch fails the
// handshake on the peer.
func NewInitiator(localPriv, remotePub, prologue []byte) (*Session, error) {
	localPub, err := ExtractPubkey(localPriv)
	if err != nil {
		return nil, err
	}
	if len(remotePub) != KeySize {
		return nil, fmt.Errorf("%w: remote public key must be %d bytes, got %d", ErrBadKeyEncoding, KeySize, len(remotePub))
	}

	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite: cipherSuite,
		Pattern:     noise.HandshakeX,
		Initiator:   true,
		StaticKeypair: noise.DHKey{
			Private: localPriv,
			Public:  localPub,
		},
		PeerStatic: remotePub,
		Prologue:   prologue,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: init initiator: %w", ErrHandshakeFailed, err)
	}
	return &Session{hs: hs, initiator: true}, nil
}

// NewResponder builds a Session that will decrypt a message addressed
// to localPriv. The sender's identity is not known until
// HandshakeRead returns.
func NewResponder(localPriv, prologue []byte) (*Session, error) {
	localPub, err := ExtractPubkey(localPriv)
	if err != nil {
		return nil, err
	}

	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite: cipherSuite,
		Pattern:     noise.HandshakeX,
		Initiator:   false,
		StaticKeypair: noise.DHKey{
			Private: localPriv,
			Public:  localPub,
		},
		Prologue: prologue,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: init responder: %w", ErrHandshakeFailed, err)
	}
	return &Session{hs: hs}, nil
}

// HandshakeWrite produces the single HeaderLength-byte handshake
// message. Initiator-only, exactly one call.
func (s *Session) HandshakeWrite(payloadAD []byte) ([]byte, error) {
	if !s.initiator {
		return nil, fmt.Errorf("%w: handshake_write called on a responder session", ErrUsage)
	}
	if s.handshakeDone {
		return nil, fmt.Errorf("%w: handshake already performed", ErrUsage)
	}

	out, cs1, _, err := s.hs.WriteMessage(nil, payloadAD)
	if err != nil {
		return nil, fmt.Errorf("%w: write handshake message: %w", ErrHandshakeFailed, err)
	}

	s.pending = cs1
	s.remote = append([]byte(nil), s.hs.PeerStatic()...)
	s.handshakeDone = true
	s.hs = nil
	return out, nil
}

// HandshakeRead consumes the single HeaderLength-byte handshake
// message. Responder-only, exactly one call. On success the sender's
// static public key is available from RemoteStatic.
func (s *Session) HandshakeRead(message []byte) ([]byte, error) {
	if s.initiator {
		return nil, fmt.Errorf("%w: handshake_read called on an initiator session", ErrUsage)
	}
	if s.handshakeDone {
		return nil, fmt.Errorf("%w: handshake already performed", ErrUsage)
	}

	payload, cs1, _, err := s.hs.ReadMessage(nil, message)
	if err != nil {
		return nil, fmt.Errorf("%w: read handshake message: %w", ErrHandshakeFailed, err)
	}

	s.pending = cs1
	s.remote = append([]byte(nil), s.hs.PeerStatic()...)
	s.handshakeDone = true
	s.hs = nil
	return payload, nil
}

// IntoTransport performs the one-way transition from handshake to
// transport phase. It must be called exactly once, after the single
// handshake message has been written or read.
func (s *Session) IntoTransport() error {
	if !s.handshakeDone {
		return fmt.Errorf("%w: handshake not complete", ErrUsage)
	}
	if s.transport {
		return fmt.Errorf("%w: session already in transport mode", ErrUsage)
	}
	s.cipher = s.pending
	s.pending = nil
	s.transport = true
	return nil
}

// TransportWrite seals plaintext as a single AEAD record. Each call
// consumes the next nonce in sequence; callers must not reorder or
// skip records.
func (s *Session) TransportWrite(plaintext []byte) ([]byte, error) {
	if !s.transport {
		return nil, fmt.Errorf("%w: session not in transport mode", ErrUsage)
	}
	out, err := s.cipher.Encrypt(nil, nil, plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: encrypt record: %w", ErrRecordVerification, err)
	}
	return out, nil
}

// TransportRead opens a single AEAD record. Tag mismatch, reordering,
// or duplication are all detected here as record verification
// failures.
func (s *Session) TransportRead(ciphertext []byte) ([]byte, error) {
	if !s.transport {
		return nil, fmt.Errorf("%w: session not in transport mode", ErrUsage)
	}
	out, err := s.cipher.Decrypt(nil, nil, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypt record: %w", ErrRecordVerification, err)
	}
	return out, nil
}

// RemoteStatic returns the peer's static public key once the
// handshake has completed, or nil beforehand.
func (s *Session) RemoteStatic() []byte {
	return s.remote
}
