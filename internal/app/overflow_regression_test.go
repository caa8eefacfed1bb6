package app

import (
	"math"
	"strings"
	"testing"

	"rpschain/internal/rps"
	"rpschain/internal/state"
)

// A settlement whose fee computation would overflow must leave every coin in
// custody so a corrected retry is possible.
func TestOverflow_SettleLeavesFundsInCustodyAndIsRetryable(t *testing.T) {
	const height = int64(1)
	a := newTestApp(t)
	id := setupJoinedGame(t, a, height)

	mustOk(t, a.deliverTx(txBytesSigned(t, "rps/forfeit_game", map[string]any{
		"caller": "alice", "gameId": id, "loserIsPlayer1": true,
	}, "alice"), height))

	// Corrupt the pot so pot*feeBps overflows uint64.
	g := a.st.Games[id]
	g.TotalPot = math.MaxUint64

	gid, _ := rps.ParseGameID(id)
	vaultBefore := a.st.Balance(gameVaultAccount(gid))

	res := a.deliverTx(txBytesSigned(t, "rps/settle_game", map[string]any{
		"caller": "bob", "gameId": id,
	}, "bob"), height)
	if res.Code == 0 || !strings.Contains(res.Log, "overflow") {
		t.Fatalf("expected overflow failure, got code=%d log=%q", res.Code, res.Log)
	}

	if a.st.Games[id].Status != state.StatusFinished {
		t.Fatalf("status changed on failed settle: %s", a.st.Games[id].Status)
	}
	if got := a.st.Balance(gameVaultAccount(gid)); got != vaultBefore {
		t.Fatalf("vault changed on failed settle: %d", got)
	}
	if a.st.Balance("bob") != 0 {
		t.Fatalf("payout leaked on failed settle")
	}

	// Restore the true pot; settlement now completes.
	a.st.Games[id].TotalPot = 2 * testBet
	mustOk(t, a.deliverTx(txBytesSigned(t, "rps/settle_game", map[string]any{
		"caller": "bob", "gameId": id,
	}, "bob"), height))
	if a.st.Games[id].Status != state.StatusSettled {
		t.Fatalf("retry did not settle")
	}
}

func TestOverflow_CreditCapsTotalSupply(t *testing.T) {
	const height = int64(1)
	a := newTestApp(t)

	mintTestTokens(t, a, height, "alice", math.MaxUint64)
	res := a.deliverTx(txBytes(t, "bank/mint", map[string]any{"to": "alice", "amount": 1}), height)
	if res.Code == 0 {
		t.Fatalf("expected overflowing mint to fail")
	}
	if got := a.st.Balance("alice"); got != math.MaxUint64 {
		t.Fatalf("balance corrupted: %d", got)
	}
}
