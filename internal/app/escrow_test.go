package app

import (
	"strings"
	"testing"

	"rpschain/internal/rps"
)

// Escrow accounts live under a reserved name prefix that key registration and
// user bank ops must refuse, or the pot is one bank/send away from anyone who
// registers the vault's name.

func TestReservedAccounts_VaultKeyRegistrationRejected(t *testing.T) {
	const height = int64(10)
	a := newTestApp(t)
	id := setupJoinedGame(t, a, height)

	gid, err := rps.ParseGameID(id)
	if err != nil {
		t.Fatalf("parse game id: %v", err)
	}
	vault := gameVaultAccount(gid)
	pot := a.st.Balance(vault)
	if pot != 2*testBet {
		t.Fatalf("vault=%d want %d", pot, 2*testBet)
	}

	for _, name := range []string{vault, houseVaultAccount, "rps/anything"} {
		pub, _ := testEd25519Key(name)
		res := a.deliverTx(txBytesSigned(t, "auth/register_account", map[string]any{
			"account": name,
			"pubKey":  []byte(pub),
		}, name), height)
		if res.Code == 0 || !strings.Contains(res.Log, "reserved") {
			t.Fatalf("expected registration of %q to fail, got code=%d log=%q", name, res.Code, res.Log)
		}
	}

	// Even with a signature over the vault's name, the send is refused before
	// auth ever runs.
	res := a.deliverTx(txBytesSigned(t, "bank/send", map[string]any{
		"from":   vault,
		"to":     "mallory",
		"amount": pot,
	}, vault), height)
	if res.Code == 0 || !strings.Contains(res.Log, "reserved") {
		t.Fatalf("expected send from vault to fail, got code=%d log=%q", res.Code, res.Log)
	}

	if got := a.st.Balance(vault); got != pot {
		t.Fatalf("vault=%d want %d", got, pot)
	}
	if got := a.st.Balance("mallory"); got != 0 {
		t.Fatalf("mallory=%d want 0", got)
	}
	if len(a.st.AccountKeys[vault]) != 0 || len(a.st.AccountKeys[houseVaultAccount]) != 0 {
		t.Fatalf("key registered for an escrow account")
	}
}

func TestReservedAccounts_MintRejected(t *testing.T) {
	a := newTestApp(t)

	res := a.deliverTx(txBytes(t, "bank/mint", map[string]any{
		"to": houseVaultAccount, "amount": uint64(1),
	}), 1)
	if res.Code == 0 || !strings.Contains(res.Log, "reserved") {
		t.Fatalf("expected mint to escrow to fail, got code=%d log=%q", res.Code, res.Log)
	}
	if got := a.st.Balance(houseVaultAccount); got != 0 {
		t.Fatalf("house=%d want 0", got)
	}
}
