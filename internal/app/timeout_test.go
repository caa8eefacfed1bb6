package app

import (
	"strings"
	"testing"

	"rpschain/internal/rps"
	"rpschain/internal/state"
)

func TestResolveCommitTimeout_OneSideCommittedWins(t *testing.T) {
	const height = int64(10)
	a := newTestApp(t)
	id := setupJoinedGame(t, a, height)

	startTestRound(t, a, height, id, 0, "alice")
	commitTestMove(t, a, height, id, 0, "alice", "alice", rps.MoveRock, 1)

	deadline := height + int64(rps.CommitPhaseBlocks)
	res := mustOk(t, a.deliverTx(txBytesSigned(t, "rps/resolve_commit_timeout", map[string]any{
		"caller": "alice", "gameId": id, "round": uint8(0),
	}, "alice"), deadline+1))

	ev := findEvent(res.Events, EventRoundResolved)
	if got := attr(ev, "outcome"); got != "player1" {
		t.Fatalf("outcome=%q want player1", got)
	}
	g := a.st.Games[id]
	if g.Player1Wins != 1 || g.Player2Wins != 0 || g.RoundsPlayed != 1 {
		t.Fatalf("wins=%d/%d rounds=%d", g.Player1Wins, g.Player2Wins, g.RoundsPlayed)
	}
	if !g.Rounds[0].Resolved {
		t.Fatalf("round not marked resolved")
	}
}

func TestResolveCommitTimeout_NeitherCommittedIsDraw(t *testing.T) {
	const height = int64(10)
	a := newTestApp(t)
	id := setupJoinedGame(t, a, height)

	startTestRound(t, a, height, id, 0, "bob")

	deadline := height + int64(rps.CommitPhaseBlocks)
	res := mustOk(t, a.deliverTx(txBytesSigned(t, "rps/resolve_commit_timeout", map[string]any{
		"caller": "bob", "gameId": id, "round": uint8(0),
	}, "bob"), deadline+1))

	if got := attr(findEvent(res.Events, EventRoundResolved), "outcome"); got != "draw" {
		t.Fatalf("outcome=%q want draw", got)
	}
	g := a.st.Games[id]
	if g.Player1Wins != 0 || g.Player2Wins != 0 || g.RoundsPlayed != 1 {
		t.Fatalf("wins=%d/%d rounds=%d", g.Player1Wins, g.Player2Wins, g.RoundsPlayed)
	}
}

func TestResolveCommitTimeout_ForbiddenWhenBothCommitted(t *testing.T) {
	const height = int64(10)
	a := newTestApp(t)
	id := setupJoinedGame(t, a, height)

	startTestRound(t, a, height, id, 0, "alice")
	commitTestMove(t, a, height, id, 0, "alice", "alice", rps.MoveRock, 1)
	commitTestMove(t, a, height, id, 0, "bob", "bob", rps.MovePaper, 2)

	deadline := height + int64(rps.CommitPhaseBlocks)
	res := a.deliverTx(txBytesSigned(t, "rps/resolve_commit_timeout", map[string]any{
		"caller": "alice", "gameId": id, "round": uint8(0),
	}, "alice"), deadline+100)
	if res.Code == 0 || !strings.Contains(res.Log, "timeout resolve not allowed") {
		t.Fatalf("expected both-committed resolve to fail, got code=%d log=%q", res.Code, res.Log)
	}
	if a.st.Games[id].Rounds[0].Resolved {
		t.Fatalf("round must stay unresolved; reveal is the only path")
	}
}

func TestResolveCommitTimeout_NotYetExpired(t *testing.T) {
	const height = int64(10)
	a := newTestApp(t)
	id := setupJoinedGame(t, a, height)

	startTestRound(t, a, height, id, 0, "alice")

	deadline := height + int64(rps.CommitPhaseBlocks)
	res := a.deliverTx(txBytesSigned(t, "rps/resolve_commit_timeout", map[string]any{
		"caller": "alice", "gameId": id, "round": uint8(0),
	}, "alice"), deadline)
	if res.Code == 0 || !strings.Contains(res.Log, "not yet expired") {
		t.Fatalf("expected resolve at deadline to fail, got code=%d log=%q", res.Code, res.Log)
	}
}

func TestCommitMove_AfterDeadlineFails(t *testing.T) {
	const height = int64(10)
	a := newTestApp(t)
	id := setupJoinedGame(t, a, height)

	startTestRound(t, a, height, id, 0, "alice")

	deadline := height + int64(rps.CommitPhaseBlocks)
	commitment, _ := makeCommitment(t, rps.MoveRock, 1, id, 0, "alice")

	// Last valid height is the deadline itself.
	mustOk(t, a.deliverTx(txBytesSigned(t, "rps/commit_move", map[string]any{
		"player": "alice", "gameId": id, "round": uint8(0), "commitment": commitment,
	}, "alice"), deadline))

	c2, _ := makeCommitment(t, rps.MovePaper, 2, id, 0, "bob")
	res := a.deliverTx(txBytesSigned(t, "rps/commit_move", map[string]any{
		"player": "bob", "gameId": id, "round": uint8(0), "commitment": c2,
	}, "bob"), deadline+1)
	if res.Code == 0 || !strings.Contains(res.Log, "expired") {
		t.Fatalf("expected late commit to fail, got code=%d log=%q", res.Code, res.Log)
	}
}

func TestStartRound_AfterTimeoutResolutionReportsWindowStarted(t *testing.T) {
	const height = int64(10)
	a := newTestApp(t)
	id := setupJoinedGame(t, a, height)

	startTestRound(t, a, height, id, 0, "alice")
	deadline := height + int64(rps.CommitPhaseBlocks)
	mustOk(t, a.deliverTx(txBytesSigned(t, "rps/resolve_commit_timeout", map[string]any{
		"caller": "alice", "gameId": id, "round": uint8(0),
	}, "alice"), deadline+1))

	// The window guard runs before the resolved guard, so restarting a round
	// closed by timeout reports the started window.
	res := a.deliverTx(txBytesSigned(t, "rps/start_round", map[string]any{
		"caller": "bob", "gameId": id, "round": uint8(0),
	}, "bob"), deadline+2)
	if res.Code == 0 || !strings.Contains(res.Log, "already started") {
		t.Fatalf("expected restart to fail on started window, got code=%d log=%q", res.Code, res.Log)
	}
}

func TestCloseTimedOutGame(t *testing.T) {
	const createdAt = int64(100)
	a := newTestApp(t)
	initTestHouse(t, a, createdAt, "admin")
	mintTestTokens(t, a, createdAt, "alice", testBet+testFee)
	registerTestAccount(t, a, createdAt, "alice")

	id := testGameIDHex(1)
	mustOk(t, a.deliverTx(txBytesSigned(t, "rps/create_game", map[string]any{
		"creator": "alice", "gameId": id, "betAmount": testBet, "entryFee": testFee,
	}, "alice"), createdAt))

	timeoutAt := createdAt + int64(rps.CreationTimeoutBlocks)

	res := a.deliverTx(txBytesSigned(t, "rps/close_timed_out_game", map[string]any{
		"caller": "alice", "gameId": id,
	}, "alice"), timeoutAt-1)
	if res.Code == 0 || !strings.Contains(res.Log, "not timed out") {
		t.Fatalf("expected early close to fail, got code=%d log=%q", res.Code, res.Log)
	}

	mustOk(t, a.deliverTx(txBytesSigned(t, "rps/close_timed_out_game", map[string]any{
		"caller": "alice", "gameId": id,
	}, "alice"), timeoutAt))

	// Bet refunded, entry fee kept, record reclaimed.
	if got := a.st.Balance("alice"); got != testBet {
		t.Fatalf("alice=%d want %d", got, testBet)
	}
	if got := a.st.Balance(houseVaultAccount); got != testFee {
		t.Fatalf("house=%d want %d", got, testFee)
	}
	if _, ok := a.st.Games[id]; ok {
		t.Fatalf("expected game record to be deleted")
	}
}

func TestCloseTimedOutGame_RequiresWaitingStatus(t *testing.T) {
	const height = int64(1)
	a := newTestApp(t)
	id := setupJoinedGame(t, a, height)

	res := a.deliverTx(txBytesSigned(t, "rps/close_timed_out_game", map[string]any{
		"caller": "bob", "gameId": id,
	}, "bob"), height+int64(rps.CreationTimeoutBlocks)+1)
	if res.Code == 0 || !strings.Contains(res.Log, "not cancellable") {
		t.Fatalf("expected close of joined game to fail, got code=%d log=%q", res.Code, res.Log)
	}
	if a.st.Games[id].Status != state.StatusActive {
		t.Fatalf("status changed")
	}
}
