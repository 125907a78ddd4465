package peter

// WORLD is a hard-coded, publicly known test keypair, addressable via
// the "+" sentinel at the CLI boundary (see internal/cliio). It exists
// so documentation examples stay copy-pasteable and MUST never be used
// to protect real data.
const (
	WorldPublicKeyB64  = "x+ssYnIlVuk9NkkxFbdXmNXCaAD0YB31aaUz5xsgPVI="
	WorldPrivateKeyB64 = "4vQ4EoIcdkSn3liU4Fki9vyx1CsFb5RluE5gZnGfEyg="
)

// IsWorldKey reports whether the given base64 key text matches either
// half of the WORLD keypair.
func IsWorldKey(text string) bool {
	return text == WorldPublicKeyB64 || text == WorldPrivateKeyB64
}
