package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"math/big"
)

// NewOpaqueToken returns a bearer token and the hash stored server-side.
// Only the hash ever touches the database.
func NewOpaqueToken() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = base64.RawURLEncoding.EncodeToString(buf)
	hash = HashToken(raw)
	return raw, hash, nil
}

func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

const claimCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const claimCodeLen = 10

// NewClaimCode returns the public redemption code handed to users,
// 10 characters drawn from [A-Z0-9].
func NewClaimCode() (string, error) {
	out := make([]byte, claimCodeLen)
	max := big.NewInt(int64(len(claimCodeAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = claimCodeAlphabet[n.Int64()]
	}
	return string(out), nil
}

// NewClaimToken returns the internal opaque claim token as random hex.
func NewClaimToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
