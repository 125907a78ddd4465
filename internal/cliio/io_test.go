package cliio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/crepererum/peter"
)

func TestSentinels(t *testing.T) {
	if !IsStdInOut("-") || IsStdInOut("x") {
		t.Fatalf("IsStdInOut wrong")
	}
	if !IsNone(".") || IsNone("-") {
		t.Fatalf("IsNone wrong")
	}
	if !IsWorld("+") || IsWorld(".") {
		t.Fatalf("IsWorld wrong")
	}
}

func TestReadKeyAbsent(t *testing.T) {
	key, err := ReadKey(".", PrivateKey)
	if err != nil {
		t.Fatalf("ReadKey(\".\"): %v", err)
	}
	if key != nil {
		t.Fatalf("want nil key for absent parameter, got %v", key)
	}
}

func TestReadKeyWorldSentinel(t *testing.T) {
	priv, err := ReadKey("+", PrivateKey)
	if err != nil {
		t.Fatalf("ReadKey(\"+\", PrivateKey): %v", err)
	}
	if peter.EncodeKey(priv) != peter.WorldPrivateKeyB64 {
		t.Fatalf("want the WORLD private key")
	}

	pub, err := ReadKey("+", PublicKey)
	if err != nil {
		t.Fatalf("ReadKey(\"+\", PublicKey): %v", err)
	}
	if peter.EncodeKey(pub) != peter.WorldPublicKeyB64 {
		t.Fatalf("want the WORLD public key")
	}
}

func TestReadWriteKeyFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key.txt")

	priv, err := peter.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if err := WriteKey(path, priv, PrivateKey); err != nil {
		t.Fatalf("WriteKey: %v", err)
	}

	got, err := ReadKey(path, PrivateKey)
	if err != nil {
		t.Fatalf("ReadKey: %v", err)
	}
	if !bytes.Equal(got, priv) {
		t.Fatalf("round trip mismatch")
	}
}

func TestWriteKeyCollapsesWorldKeyToSentinelOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key.txt")

	priv, err := peter.DecodeKey(peter.WorldPrivateKeyB64)
	if err != nil {
		t.Fatalf("DecodeKey: %v", err)
	}
	if err := WriteKey(path, priv, PrivateKey); err != nil {
		t.Fatalf("WriteKey: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(bytes.TrimSpace(data)) != "+" {
		t.Fatalf("want the collapsed \"+\" sentinel on disk, got %q", data)
	}

	// And it should read back as the same key via the "+" path.
	got, err := ReadKey(path, PrivateKey)
	if err != nil {
		t.Fatalf("ReadKey: %v", err)
	}
	if !bytes.Equal(got, priv) {
		t.Fatalf("round trip through collapsed sentinel mismatch")
	}
}

func TestWriteKeyToWorldSentinelIsAnError(t *testing.T) {
	priv, err := peter.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if err := WriteKey("+", priv, PrivateKey); !errors.Is(err, peter.ErrUsage) {
		t.Fatalf("want ErrUsage writing to \"+\", got %v", err)
	}
}

func TestReadKeyRejectsMissingFile(t *testing.T) {
	if _, err := ReadKey(filepath.Join(t.TempDir(), "does-not-exist"), PrivateKey); !errors.Is(err, peter.ErrIO) {
		t.Fatalf("want ErrIO, got %v", err)
	}
}

func TestOpenReaderWriterFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	w, err := OpenWriter(path)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	got := make([]byte, len("payload"))
	if _, err := r.Read(got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("want %q, got %q", "payload", got)
	}
}
