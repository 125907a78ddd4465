package peter

import (
	"bytes"
	"errors"
	"testing"
)

func genKeypair(t *testing.T) (priv, pub []byte) {
	t.Helper()
	priv, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	pub, err = ExtractPubkey(priv)
	if err != nil {
		t.Fatalf("ExtractPubkey: %v", err)
	}
	return priv, pub
}

func TestSessionHandshakeAndTransportRoundTrip(t *testing.T) {
	alicePriv, alicePub := genKeypair(t)
	bobPriv, bobPub := genKeypair(t)

	initiator, err := NewInitiator(alicePriv, bobPub, []byte("test prologue"))
	if err != nil {
		t.Fatalf("NewInitiator: %v", err)
	}
	responder, err := NewResponder(bobPriv, []byte("test prologue"))
	if err != nil {
		t.Fatalf("NewResponder: %v", err)
	}

	msg, err := initiator.HandshakeWrite(nil)
	if err != nil {
		t.Fatalf("HandshakeWrite: %v", err)
	}
	if len(msg) != HeaderLength {
		t.Fatalf("want handshake message of %d bytes, got %d", HeaderLength, len(msg))
	}

	if _, err := responder.HandshakeRead(msg); err != nil {
		t.Fatalf("HandshakeRead: %v", err)
	}

	if !bytes.Equal(responder.RemoteStatic(), alicePub) {
		t.Fatalf("responder learned wrong sender identity")
	}

	if err := initiator.IntoTransport(); err != nil {
		t.Fatalf("initiator IntoTransport: %v", err)
	}
	if err := responder.IntoTransport(); err != nil {
		t.Fatalf("responder IntoTransport: %v", err)
	}

	plaintext := []byte("hello, noise")
	ct, err := initiator.TransportWrite(plaintext)
	if err != nil {
		t.Fatalf("TransportWrite: %v", err)
	}
	pt, err := responder.TransportRead(ct)
	if err != nil {
		t.Fatalf("TransportRead: %v", err)
	}
	if !bytes.Equal(pt, plaintext) {
		t.Fatalf("transport round trip mismatch: got %q want %q", pt, plaintext)
	}
}

func TestSessionHandshakeWrongRecipientFails(t *testing.T) {
	alicePriv, _ := genKeypair(t)
	_, bobPub := genKeypair(t)
	malloryPriv, _ := genKeypair(t)

	initiator, err := NewInitiator(alicePriv, bobPub, []byte("p"))
	if err != nil {
		t.Fatalf("NewInitiator: %v", err)
	}
	responder, err := NewResponder(malloryPriv, []byte("p"))
	if err != nil {
		t.Fatalf("NewResponder: %v", err)
	}

	msg, err := initiator.HandshakeWrite(nil)
	if err != nil {
		t.Fatalf("HandshakeWrite: %v", err)
	}
	if _, err := responder.HandshakeRead(msg); !errors.Is(err, ErrHandshakeFailed) {
		t.Fatalf("want ErrHandshakeFailed, got %v", err)
	}
}

func TestSessionHandshakePrologueMismatchFails(t *testing.T) {
	alicePriv, _ := genKeypair(t)
	bobPriv, bobPub := genKeypair(t)

	initiator, err := NewInitiator(alicePriv, bobPub, []byte("PETER V2"))
	if err != nil {
		t.Fatalf("NewInitiator: %v", err)
	}
	responder, err := NewResponder(bobPriv, []byte("PETER V1"))
	if err != nil {
		t.Fatalf("NewResponder: %v", err)
	}

	msg, err := initiator.HandshakeWrite(nil)
	if err != nil {
		t.Fatalf("HandshakeWrite: %v", err)
	}
	if _, err := responder.HandshakeRead(msg); !errors.Is(err, ErrHandshakeFailed) {
		t.Fatalf("want ErrHandshakeFailed on prologue mismatch, got %v", err)
	}
}

func TestSessionTransportTamperedRecordFails(t *testing.T) {
	alicePriv, _ := genKeypair(t)
	bobPriv, bobPub := genKeypair(t)

	initiator, _ := NewInitiator(alicePriv, bobPub, []byte("p"))
	responder, _ := NewResponder(bobPriv, []byte("p"))

	msg, _ := initiator.HandshakeWrite(nil)
	if _, err := responder.HandshakeRead(msg); err != nil {
		t.Fatalf("HandshakeRead: %v", err)
	}
	_ = initiator.IntoTransport()
	_ = responder.IntoTransport()

	ct, err := initiator.TransportWrite([]byte("payload"))
	if err != nil {
		t.Fatalf("TransportWrite: %v", err)
	}
	tampered := append([]byte(nil), ct...)
	tampered[0] ^= 0x01

	if _, err := responder.TransportRead(tampered); !errors.Is(err, ErrRecordVerification) {
		t.Fatalf("want ErrRecordVerification, got %v", err)
	}
}

func TestSessionUsageViolations(t *testing.T) {
	priv, pub := genKeypair(t)

	responder, _ := NewResponder(priv, []byte("p"))
	if _, err := responder.HandshakeWrite(nil); !errors.Is(err, ErrUsage) {
		t.Fatalf("want ErrUsage writing a handshake from a responder, got %v", err)
	}

	initiator, _ := NewInitiator(priv, pub, []byte("p"))
	if _, err := initiator.HandshakeRead(make([]byte, HeaderLength)); !errors.Is(err, ErrUsage) {
		t.Fatalf("want ErrUsage reading a handshake on an initiator, got %v", err)
	}

	if _, err := initiator.TransportWrite([]byte("x")); !errors.Is(err, ErrUsage) {
		t.Fatalf("want ErrUsage writing transport before handshake, got %v", err)
	}
}
