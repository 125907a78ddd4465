// Package cliio resolves the peter CLI's named input/output and key
// parameters, including the "-" (stdin/stdout), "." (absent), and "+"
// (WORLD test keypair) sentinels described in the boundary contract.
package cliio

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/crepererum/peter"
)

// KeyType distinguishes which half of the WORLD sentinel keypair a
// name resolves to.
type KeyType int

const (
	PrivateKey KeyType = iota
	PublicKey
)

const (
	sentinelStdInOut = "-"
	sentinelNone     = "."
	sentinelWorld    = "+"
)

// IsStdInOut reports whether name refers to standard input/output.
func IsStdInOut(name string) bool { return name == sentinelStdInOut }

// IsNone reports whether name means "absent" (key parameters only).
func IsNone(name string) bool { return name == sentinelNone }

// IsWorld reports whether name refers to the WORLD sentinel keypair.
func IsWorld(name string) bool { return name == sentinelWorld }

// OpenReader opens a named input: "-" for stdin, otherwise a file.
func OpenReader(name string) (io.ReadCloser, error) {
	if IsStdInOut(name) {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: open input %q: %w", peter.ErrIO, name, err)
	}
	return f, nil
}

// OpenWriter opens a named output: "-" for stdout, otherwise a file
// (created/truncated).
func OpenWriter(name string) (io.WriteCloser, error) {
	if IsStdInOut(name) {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("%w: open output %q: %w", peter.ErrIO, name, err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// ReadKey reads and decodes a key parameter. Absent ("." - key
// parameters only) returns a nil key with no error. WORLD ("+") and
// explicit WORLD base64 text both resolve to the hard-coded WORLD
// keypair half selected by kt, and log a warning since WORLD keys must
// never protect real data.
func ReadKey(name string, kt KeyType) ([]byte, error) {
	if IsNone(name) {
		return nil, nil
	}

	var text string
	switch {
	case IsWorld(name):
		text = sentinelWorld
	case IsStdInOut(name):
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: read key from stdin: %w", peter.ErrIO, err)
		}
		text = strings.TrimSpace(string(data))
	default:
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("%w: read key file %q: %w", peter.ErrIO, name, err)
		}
		text = strings.TrimSpace(string(data))
	}

	if IsWorld(text) {
		text = worldText(kt)
		log.Warn().Str("key", name).Msg("using WORLD sentinel key; never use WORLD to protect real data")
	}

	return peter.DecodeKey(text)
}

// WriteKey encodes key as base64 and writes it to the named
// destination. Writing to "+" is an error. A key matching the WORLD
// keypair is collapsed to the single-character "+" shorthand before
// writing, whether the destination is stdout or a file.
func WriteKey(name string, key []byte, kt KeyType) error {
	if IsNone(name) {
		return nil
	}
	if IsWorld(name) {
		return fmt.Errorf("%w: cannot write to the WORLD sentinel %q", peter.ErrUsage, name)
	}

	encoded := peter.EncodeKey(key)
	if encoded == worldText(kt) {
		encoded = sentinelWorld
	}

	if IsStdInOut(name) {
		_, err := fmt.Fprintln(os.Stdout, encoded)
		if err != nil {
			return fmt.Errorf("%w: write key to stdout: %w", peter.ErrIO, err)
		}
		return nil
	}

	if err := os.WriteFile(name, []byte(encoded+"\n"), 0o600); err != nil {
		return fmt.Errorf("%w: write key file %q: %w", peter.ErrIO, name, err)
	}
	return nil
}

func worldText(kt KeyType) string {
	if kt == PublicKey {
		return peter.WorldPublicKeyB64
	}
	return peter.WorldPrivateKeyB64
}
