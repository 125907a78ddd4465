// Package peter implements a file-at-a-time authenticated encryption
// scheme over a Noise X handshake (Noise_X_25519_ChaChaPoly_BLAKE2s).
//
// A sender encrypts a plaintext file for a recipient's static public
// key, authenticating itself with its own static key. A recipient
// decrypts the file, recovers the sender's static public key from the
// handshake, and may compare it against an expected value.
//
// Two on-disk formats exist: V2 (recommended, marker-framed records)
// and V1 (legacy, length-prefixed). Both share the same handshake and
// AEAD machinery but use distinct prologues so a file encoded in one
// version fails handshake authentication under the other.
package peter
