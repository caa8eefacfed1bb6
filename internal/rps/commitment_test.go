package rps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testGameID(t *testing.T) GameID {
	t.Helper()
	id, err := ParseGameID(strings.Repeat("ab", 32))
	require.NoError(t, err)
	return id
}

func testNonce(t *testing.T) Nonce {
	t.Helper()
	n, err := ParseNonce(strings.Repeat("01", 32))
	require.NoError(t, err)
	return n
}

func TestMoveCommitment_RoundTrip(t *testing.T) {
	id := testGameID(t)
	nonce := testNonce(t)

	c := MoveCommitment(MovePaper, nonce, id, 2, "alice")
	require.True(t, VerifyCommitment(c[:], MovePaper, nonce, id, 2, "alice"))
}

func TestVerifyCommitment_AnyFieldMutationFails(t *testing.T) {
	id := testGameID(t)
	nonce := testNonce(t)

	c := MoveCommitment(MovePaper, nonce, id, 2, "alice")

	require.False(t, VerifyCommitment(c[:], MoveRock, nonce, id, 2, "alice"), "move")

	mutatedNonce := nonce
	mutatedNonce[0] ^= 0x01
	require.False(t, VerifyCommitment(c[:], MovePaper, mutatedNonce, id, 2, "alice"), "nonce")

	mutatedID := id
	mutatedID[31] ^= 0x01
	require.False(t, VerifyCommitment(c[:], MovePaper, nonce, mutatedID, 2, "alice"), "game id")

	require.False(t, VerifyCommitment(c[:], MovePaper, nonce, id, 3, "alice"), "round")
	require.False(t, VerifyCommitment(c[:], MovePaper, nonce, id, 2, "alicf"), "player identity")
}

func TestVerifyCommitment_RejectsWrongLength(t *testing.T) {
	id := testGameID(t)
	nonce := testNonce(t)

	c := MoveCommitment(MoveRock, nonce, id, 0, "alice")
	require.False(t, VerifyCommitment(c[:31], MoveRock, nonce, id, 0, "alice"))
	require.False(t, VerifyCommitment(nil, MoveRock, nonce, id, 0, "alice"))
}

func TestParseGameID(t *testing.T) {
	_, err := ParseGameID("zz")
	require.Error(t, err)

	_, err = ParseGameID(strings.Repeat("ab", 16))
	require.Error(t, err, "too short")

	id, err := ParseGameID(strings.Repeat("cd", 32))
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("cd", 32), id.String())
}

func TestParseNonce(t *testing.T) {
	_, err := ParseNonce("0102")
	require.Error(t, err)

	n, err := ParseNonce(strings.Repeat("ef", 32))
	require.NoError(t, err)
	require.Equal(t, byte(0xef), n[0])
}
