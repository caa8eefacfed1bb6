package rps

import (
	"encoding/hex"
	"fmt"
)

// GameID is the 32-byte match identifier (e.g. uuid bytes or a hash of one).
// It is carried as lowercase hex on the wire and in state keys.
type GameID [32]byte

func ParseGameID(s string) (GameID, error) {
	var id GameID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid game id hex: %w", err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("game id must be %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id GameID) String() string {
	return hex.EncodeToString(id[:])
}
