package rps

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const (
	CommitmentSize = sha256.Size
	NonceSize      = 32
)

// Nonce is the 32-byte blinding value bound into a move commitment.
type Nonce [NonceSize]byte

func ParseNonce(s string) (Nonce, error) {
	var n Nonce
	b, err := hex.DecodeString(s)
	if err != nil {
		return n, fmt.Errorf("invalid nonce hex: %w", err)
	}
	if len(b) != len(n) {
		return n, fmt.Errorf("nonce must be %d bytes, got %d", len(n), len(b))
	}
	copy(n[:], b)
	return n, nil
}

// MoveCommitment computes the digest a player publishes before revealing:
//
//	sha256(move || nonce || gameID || round || player)
//
// player is the side's primary identity, never a delegated session signer, so
// the commitment stays anchored to the persistent key no matter which key
// submits the transactions.
func MoveCommitment(move Move, nonce Nonce, gameID GameID, round uint8, player string) [CommitmentSize]byte {
	h := sha256.New()
	h.Write([]byte{byte(move)})
	h.Write(nonce[:])
	h.Write(gameID[:])
	h.Write([]byte{round})
	h.Write([]byte(player))
	var out [CommitmentSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// VerifyCommitment recomputes the digest for a revealed move and compares it
// byte-exact against the stored commitment.
func VerifyCommitment(stored []byte, move Move, nonce Nonce, gameID GameID, round uint8, player string) bool {
	if len(stored) != CommitmentSize {
		return false
	}
	want := MoveCommitment(move, nonce, gameID, round, player)
	return subtle.ConstantTimeCompare(stored, want[:]) == 1
}
