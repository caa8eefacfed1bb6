package app

import (
	"encoding/hex"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"rpschain/internal/codec"
	"rpschain/internal/rps"
	"rpschain/internal/state"
)

type playerSide uint8

const (
	sidePlayer1 playerSide = 1
	sidePlayer2 playerSide = 2
)

func (s playerSide) String() string {
	if s == sidePlayer1 {
		return "player1"
	}
	return "player2"
}

// classifySigner resolves a signing identity to one side of the match. Main
// identities and authorized session signers are both accepted; the returned
// main identity is what the commitment scheme binds.
func classifySigner(g *state.Game, signer string) (playerSide, string, error) {
	switch signer {
	case g.Player1:
		return sidePlayer1, g.Player1, nil
	case g.Player2:
		return sidePlayer2, g.Player2, nil
	}
	if g.SessionP1 != "" && signer == g.SessionP1 {
		return sidePlayer1, g.Player1, nil
	}
	if g.SessionP2 != "" && signer == g.SessionP2 {
		return sidePlayer2, g.Player2, nil
	}
	return 0, "", errorsmod.Wrapf(ErrNotAPlayer, "%q is not a player or session signer", signer)
}

func activeRound(g *state.Game, round uint8) (*state.Round, error) {
	if g.Status != state.StatusActive {
		return nil, errorsmod.Wrapf(ErrGameNotActive, "status %s", g.Status)
	}
	if round >= rps.MaxRounds {
		return nil, errorsmod.Wrapf(ErrInvalidRound, "round %d, max %d", round, rps.MaxRounds-1)
	}
	return g.Rounds[round], nil
}

func (a *RPSApp) handleStartRound(st *state.State, env codec.TxEnvelope, msg codec.StartRoundTx, height int64) (*abci.ExecTxResult, error) {
	if msg.Caller == "" {
		return nil, errorsmod.Wrap(ErrInvalidRequest, "missing caller")
	}
	if err := requireAccountAuth(st, env, msg.Caller); err != nil {
		return nil, errorsmod.Wrap(ErrUnauthorized, err.Error())
	}
	g, id, err := getGame(st, msg.GameID)
	if err != nil {
		return nil, err
	}
	r, err := activeRound(g, msg.Round)
	if err != nil {
		return nil, err
	}
	if _, _, err := classifySigner(g, msg.Caller); err != nil {
		return nil, err
	}
	if r.CommitDeadline != 0 {
		return nil, errorsmod.Wrapf(ErrCommitWindowAlreadyStarted, "round %d deadline %d", msg.Round, r.CommitDeadline)
	}
	if r.Resolved {
		return nil, errorsmod.Wrapf(ErrRoundAlreadyResolved, "round %d", msg.Round)
	}

	deadline, err := addInt64AndU64Checked(height, rps.CommitPhaseBlocks, "commit deadline")
	if err != nil {
		return nil, errorsmod.Wrap(ErrMathOverflow, err.Error())
	}
	r.CommitDeadline = deadline

	return okEvent(EventRoundStarted, map[string]string{
		"gameId":         id.String(),
		"round":          fmt.Sprintf("%d", msg.Round),
		"commitDeadline": fmt.Sprintf("%d", deadline),
	}), nil
}

func (a *RPSApp) handleCommitMove(st *state.State, env codec.TxEnvelope, msg codec.CommitMoveTx, height int64) (*abci.ExecTxResult, error) {
	if msg.Player == "" {
		return nil, errorsmod.Wrap(ErrInvalidRequest, "missing player")
	}
	if err := requireAccountAuth(st, env, msg.Player); err != nil {
		return nil, errorsmod.Wrap(ErrUnauthorized, err.Error())
	}
	g, id, err := getGame(st, msg.GameID)
	if err != nil {
		return nil, err
	}
	r, err := activeRound(g, msg.Round)
	if err != nil {
		return nil, err
	}
	if r.CommitDeadline == 0 {
		return nil, errorsmod.Wrapf(ErrCommitWindowNotStarted, "round %d", msg.Round)
	}
	if height > r.CommitDeadline {
		return nil, errorsmod.Wrapf(ErrCommitPhaseExpired, "height %d past deadline %d", height, r.CommitDeadline)
	}
	side, _, err := classifySigner(g, msg.Player)
	if err != nil {
		return nil, err
	}
	commitment, err := hex.DecodeString(msg.Commitment)
	if err != nil || len(commitment) != rps.CommitmentSize {
		return nil, errorsmod.Wrapf(ErrInvalidRequest, "commitment must be %d hex-encoded bytes", rps.CommitmentSize)
	}

	switch side {
	case sidePlayer1:
		if r.CommittedP1 {
			return nil, errorsmod.Wrapf(ErrAlreadyCommitted, "player1, round %d", msg.Round)
		}
		r.CommitmentP1 = commitment
		r.CommittedP1 = true
	case sidePlayer2:
		if r.CommittedP2 {
			return nil, errorsmod.Wrapf(ErrAlreadyCommitted, "player2, round %d", msg.Round)
		}
		r.CommitmentP2 = commitment
		r.CommittedP2 = true
	}

	return okEvent(EventMoveCommitted, map[string]string{
		"gameId":        id.String(),
		"round":         fmt.Sprintf("%d", msg.Round),
		"side":          side.String(),
		"bothCommitted": fmt.Sprintf("%t", r.CommittedP1 && r.CommittedP2),
	}), nil
}

func (a *RPSApp) handleRevealMove(st *state.State, env codec.TxEnvelope, msg codec.RevealMoveTx) (*abci.ExecTxResult, error) {
	if msg.Player == "" {
		return nil, errorsmod.Wrap(ErrInvalidRequest, "missing player")
	}
	if err := requireAccountAuth(st, env, msg.Player); err != nil {
		return nil, errorsmod.Wrap(ErrUnauthorized, err.Error())
	}
	g, id, err := getGame(st, msg.GameID)
	if err != nil {
		return nil, err
	}
	r, err := activeRound(g, msg.Round)
	if err != nil {
		return nil, err
	}
	move := rps.Move(msg.Move)
	if !move.Valid() {
		return nil, errorsmod.Wrapf(ErrInvalidMove, "move %d", msg.Move)
	}
	if !r.CommittedP1 || !r.CommittedP2 {
		return nil, errorsmod.Wrapf(ErrBothMustCommitFirst, "round %d", msg.Round)
	}
	if r.Resolved {
		return nil, errorsmod.Wrapf(ErrRoundAlreadyResolved, "round %d", msg.Round)
	}
	side, mainIdentity, err := classifySigner(g, msg.Player)
	if err != nil {
		return nil, err
	}
	nonce, err := rps.ParseNonce(msg.Nonce)
	if err != nil {
		return nil, errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}
	gid, err := rps.ParseGameID(g.ID)
	if err != nil {
		return nil, errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}

	var stored []byte
	switch side {
	case sidePlayer1:
		if r.RevealedP1 {
			return nil, errorsmod.Wrapf(ErrAlreadyRevealed, "player1, round %d", msg.Round)
		}
		stored = r.CommitmentP1
	case sidePlayer2:
		if r.RevealedP2 {
			return nil, errorsmod.Wrapf(ErrAlreadyRevealed, "player2, round %d", msg.Round)
		}
		stored = r.CommitmentP2
	}
	// The digest binds the side's primary identity even when a session key
	// signed this tx.
	if !rps.VerifyCommitment(stored, move, nonce, gid, msg.Round, mainIdentity) {
		return nil, errorsmod.Wrapf(ErrCommitmentMismatch, "%s, round %d", side, msg.Round)
	}

	switch side {
	case sidePlayer1:
		r.MoveP1 = msg.Move
		r.RevealedP1 = true
	case sidePlayer2:
		r.MoveP2 = msg.Move
		r.RevealedP2 = true
	}

	res := okEvent(EventMoveRevealed, map[string]string{
		"gameId": id.String(),
		"round":  fmt.Sprintf("%d", msg.Round),
		"side":   side.String(),
		"move":   move.String(),
	})

	if r.RevealedP1 && r.RevealedP2 {
		outcome := rps.RoundWinner(rps.Move(r.MoveP1), rps.Move(r.MoveP2))
		if err := applyRoundOutcome(g, r, outcome); err != nil {
			return nil, err
		}
		res.Events = append(res.Events, roundResolvedEvent(id, msg.Round, outcome, g))
	}
	return res, nil
}

func (a *RPSApp) handleResolveCommitTimeout(st *state.State, env codec.TxEnvelope, msg codec.ResolveCommitTimeoutTx, height int64) (*abci.ExecTxResult, error) {
	if msg.Caller == "" {
		return nil, errorsmod.Wrap(ErrInvalidRequest, "missing caller")
	}
	if err := requireAccountAuth(st, env, msg.Caller); err != nil {
		return nil, errorsmod.Wrap(ErrUnauthorized, err.Error())
	}
	g, id, err := getGame(st, msg.GameID)
	if err != nil {
		return nil, err
	}
	r, err := activeRound(g, msg.Round)
	if err != nil {
		return nil, err
	}
	if r.CommitDeadline == 0 {
		return nil, errorsmod.Wrapf(ErrCommitWindowNotStarted, "round %d", msg.Round)
	}
	if height <= r.CommitDeadline {
		return nil, errorsmod.Wrapf(ErrCommitPhaseNotExpired, "height %d, deadline %d", height, r.CommitDeadline)
	}
	if r.Resolved {
		return nil, errorsmod.Wrapf(ErrRoundAlreadyResolved, "round %d", msg.Round)
	}
	// With both commitments in, resolution must go through reveal: a player
	// who committed cannot be timed out.
	if r.CommittedP1 && r.CommittedP2 {
		return nil, errorsmod.Wrapf(ErrBothCommittedNoTimeout, "round %d", msg.Round)
	}

	outcome := rps.ResultDraw
	switch {
	case r.CommittedP1 && !r.CommittedP2:
		outcome = rps.ResultPlayer1Win
	case !r.CommittedP1 && r.CommittedP2:
		outcome = rps.ResultPlayer2Win
	}
	if err := applyRoundOutcome(g, r, outcome); err != nil {
		return nil, err
	}

	return &abci.ExecTxResult{
		Code:   0,
		Events: []abci.Event{roundResolvedEvent(id, msg.Round, outcome, g)},
	}, nil
}

// applyRoundOutcome folds one resolved round into the match tallies and
// transitions to Finished at the win threshold or the round cap.
func applyRoundOutcome(g *state.Game, r *state.Round, outcome rps.RoundResult) error {
	switch outcome {
	case rps.ResultPlayer1Win:
		wins, err := addUint8Checked(g.Player1Wins, 1, "player1Wins")
		if err != nil {
			return errorsmod.Wrap(ErrMathOverflow, err.Error())
		}
		g.Player1Wins = wins
	case rps.ResultPlayer2Win:
		wins, err := addUint8Checked(g.Player2Wins, 1, "player2Wins")
		if err != nil {
			return errorsmod.Wrap(ErrMathOverflow, err.Error())
		}
		g.Player2Wins = wins
	}
	played, err := addUint8Checked(g.RoundsPlayed, 1, "roundsPlayed")
	if err != nil {
		return errorsmod.Wrap(ErrMathOverflow, err.Error())
	}
	g.RoundsPlayed = played
	r.Resolved = true

	if g.Player1Wins >= rps.WinsTarget || g.Player2Wins >= rps.WinsTarget || g.RoundsPlayed >= rps.MaxRounds {
		g.Status = state.StatusFinished
	}
	return nil
}

func roundResolvedEvent(id rps.GameID, round uint8, outcome rps.RoundResult, g *state.Game) abci.Event {
	return newEvent(EventRoundResolved, map[string]string{
		"gameId":       id.String(),
		"round":        fmt.Sprintf("%d", round),
		"outcome":      outcome.String(),
		"player1Wins":  fmt.Sprintf("%d", g.Player1Wins),
		"player2Wins":  fmt.Sprintf("%d", g.Player2Wins),
		"roundsPlayed": fmt.Sprintf("%d", g.RoundsPlayed),
		"status":       string(g.Status),
	})
}
