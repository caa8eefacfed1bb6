package app

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"rpschain/internal/codec"
	"rpschain/internal/rps"
	"rpschain/internal/state"
)

func getGame(st *state.State, rawID string) (*state.Game, rps.GameID, error) {
	id, err := rps.ParseGameID(rawID)
	if err != nil {
		return nil, rps.GameID{}, errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}
	g, ok := st.Games[id.String()]
	if !ok {
		return nil, id, errorsmod.Wrapf(ErrGameNotFound, "game %s", id)
	}
	return g, id, nil
}

func (a *RPSApp) handleCreateGame(st *state.State, env codec.TxEnvelope, msg codec.CreateGameTx, height int64) (*abci.ExecTxResult, error) {
	if msg.Creator == "" {
		return nil, errorsmod.Wrap(ErrInvalidRequest, "missing creator")
	}
	if err := requireAccountAuth(st, env, msg.Creator); err != nil {
		return nil, errorsmod.Wrap(ErrUnauthorized, err.Error())
	}
	if st.House == nil {
		return nil, errorsmod.Wrap(ErrHouseNotInitialized, "cannot snapshot fee rate")
	}
	id, err := rps.ParseGameID(msg.GameID)
	if err != nil {
		return nil, errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}
	if _, ok := st.Games[id.String()]; ok {
		return nil, errorsmod.Wrapf(ErrGameAlreadyExists, "game %s", id)
	}
	if msg.BetAmount == 0 {
		return nil, errorsmod.Wrap(ErrInvalidBetAmount, "bet must be > 0")
	}
	if msg.EntryFee == 0 {
		return nil, errorsmod.Wrap(ErrInvalidEntryFee, "entry fee must be > 0")
	}
	if msg.BetAmount < rps.MinBetAmount {
		return nil, errorsmod.Wrapf(ErrBetTooLow, "bet %d below minimum %d", msg.BetAmount, rps.MinBetAmount)
	}

	// Validate the full charge before moving anything.
	total, err := addUint64Checked(msg.BetAmount, msg.EntryFee, "bet+fee")
	if err != nil {
		return nil, errorsmod.Wrap(ErrMathOverflow, err.Error())
	}
	if bal := st.Balance(msg.Creator); bal < total {
		return nil, errorsmod.Wrapf(ErrInsufficientFunds, "account %q has %d, needs %d", msg.Creator, bal, total)
	}

	if err := transferCoins(st, msg.BetAmount, msg.Creator, gameVaultAccount(id)); err != nil {
		return nil, err
	}
	if err := transferCoins(st, msg.EntryFee, msg.Creator, houseVaultAccount); err != nil {
		return nil, err
	}

	st.Games[id.String()] = state.NewGame(id.String(), msg.Creator, msg.BetAmount, msg.EntryFee, st.House.FeeBps, height)

	return okEvent(EventGameCreated, map[string]string{
		"gameId":    id.String(),
		"creator":   msg.Creator,
		"betAmount": fmt.Sprintf("%d", msg.BetAmount),
		"entryFee":  fmt.Sprintf("%d", msg.EntryFee),
		"feeBps":    fmt.Sprintf("%d", st.House.FeeBps),
	}), nil
}

func (a *RPSApp) handleJoinGame(st *state.State, env codec.TxEnvelope, msg codec.JoinGameTx) (*abci.ExecTxResult, error) {
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
	if g.Status != state.StatusWaitingForPlayer2 {
		return nil, errorsmod.Wrapf(ErrGameNotJoinable, "status %s", g.Status)
	}
	if g.Player2 != "" {
		return nil, errorsmod.Wrap(ErrAlreadyHasPlayer2, "second seat taken")
	}

	// The joiner pays the amounts recorded at creation; nothing from the tx.
	pot, err := addUint64Checked(g.TotalPot, g.BetAmount, "totalPot")
	if err != nil {
		return nil, errorsmod.Wrap(ErrMathOverflow, err.Error())
	}
	total, err := addUint64Checked(g.BetAmount, g.EntryFee, "bet+fee")
	if err != nil {
		return nil, errorsmod.Wrap(ErrMathOverflow, err.Error())
	}
	if bal := st.Balance(msg.Player); bal < total {
		return nil, errorsmod.Wrapf(ErrInsufficientFunds, "account %q has %d, needs %d", msg.Player, bal, total)
	}

	if err := transferCoins(st, g.BetAmount, msg.Player, gameVaultAccount(id)); err != nil {
		return nil, err
	}
	if err := transferCoins(st, g.EntryFee, msg.Player, houseVaultAccount); err != nil {
		return nil, err
	}

	g.Player2 = msg.Player
	g.TotalPot = pot
	g.Status = state.StatusActive

	return okEvent(EventGameJoined, map[string]string{
		"gameId":   id.String(),
		"player2":  msg.Player,
		"totalPot": fmt.Sprintf("%d", g.TotalPot),
	}), nil
}

func (a *RPSApp) handleAuthorizeSession(st *state.State, env codec.TxEnvelope, msg codec.AuthorizeSessionTx) (*abci.ExecTxResult, error) {
	if msg.Player == "" || msg.SessionAddr == "" {
		return nil, errorsmod.Wrap(ErrInvalidRequest, "missing player/sessionAddr")
	}
	// Delegation must be granted by the primary identity, never by a
	// previously authorized session key.
	if err := requireAccountAuth(st, env, msg.Player); err != nil {
		return nil, errorsmod.Wrap(ErrUnauthorized, err.Error())
	}
	g, id, err := getGame(st, msg.GameID)
	if err != nil {
		return nil, err
	}
	if g.Status != state.StatusWaitingForPlayer2 && g.Status != state.StatusActive {
		return nil, errorsmod.Wrapf(ErrInvalidGameState, "status %s", g.Status)
	}
	switch msg.Player {
	case g.Player1:
		g.SessionP1 = msg.SessionAddr
	case g.Player2:
		g.SessionP2 = msg.SessionAddr
	default:
		return nil, errorsmod.Wrapf(ErrNotAPlayer, "%q is not a player of game %s", msg.Player, id)
	}
	return okEvent(EventSessionAuthorized, map[string]string{
		"gameId":  id.String(),
		"player":  msg.Player,
		"session": msg.SessionAddr,
	}), nil
}

// handleForfeitGame awards the match to the non-forfeiting side. Open to any
// signed caller; no funds move until settlement.
func (a *RPSApp) handleForfeitGame(st *state.State, env codec.TxEnvelope, msg codec.ForfeitGameTx) (*abci.ExecTxResult, error) {
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
	if g.Status != state.StatusActive {
		return nil, errorsmod.Wrapf(ErrGameNotActive, "status %s", g.Status)
	}

	if msg.LoserIsPlayer1 {
		g.Player2Wins = rps.WinsTarget
	} else {
		g.Player1Wins = rps.WinsTarget
	}
	g.Status = state.StatusFinished

	return okEvent(EventGameForfeited, map[string]string{
		"gameId":         id.String(),
		"loserIsPlayer1": fmt.Sprintf("%t", msg.LoserIsPlayer1),
		"player1Wins":    fmt.Sprintf("%d", g.Player1Wins),
		"player2Wins":    fmt.Sprintf("%d", g.Player2Wins),
	}), nil
}

// handleCancelGame aborts an active match and returns each side its own bet.
// The refund split is inferred from the pot alone: the pot is the single
// source of truth for which bets are actually in custody.
func (a *RPSApp) handleCancelGame(st *state.State, env codec.TxEnvelope, msg codec.CancelGameTx) (*abci.ExecTxResult, error) {
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
	if g.Status != state.StatusActive {
		return nil, errorsmod.Wrapf(ErrGameNotActive, "status %s", g.Status)
	}

	bothBets, err := mulUint64Checked(g.BetAmount, 2, "2*bet")
	if err != nil {
		return nil, errorsmod.Wrap(ErrMathOverflow, err.Error())
	}
	vault := gameVaultAccount(id)
	refundP1 := g.BetAmount
	var refundP2 uint64
	switch {
	case g.TotalPot >= bothBets:
		refundP2 = g.BetAmount
	case g.TotalPot > g.BetAmount:
		refundP2 = g.TotalPot - g.BetAmount
	}
	if refundP1 > 0 {
		if err := transferCoins(st, refundP1, vault, g.Player1); err != nil {
			return nil, err
		}
	}
	if refundP2 > 0 {
		if err := transferCoins(st, refundP2, vault, g.Player2); err != nil {
			return nil, err
		}
	}

	g.TotalPot = 0
	g.Status = state.StatusCancelled

	a.logger.Info("game cancelled", "gameId", id.String(), "refundP1", refundP1, "refundP2", refundP2)

	return okEvent(EventGameCancelled, map[string]string{
		"gameId":   id.String(),
		"refundP1": fmt.Sprintf("%d", refundP1),
		"refundP2": fmt.Sprintf("%d", refundP2),
	}), nil
}

func (a *RPSApp) handleSettleGame(st *state.State, env codec.TxEnvelope, msg codec.SettleGameTx) (*abci.ExecTxResult, error) {
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
	if g.Status != state.StatusFinished {
		return nil, errorsmod.Wrapf(ErrGameNotFinished, "status %s", g.Status)
	}
	if g.TotalPot == 0 {
		return nil, errorsmod.Wrap(ErrInvalidBetAmount, "empty pot")
	}

	sett, err := rps.ComputeSettlement(g.TotalPot, g.HouseFeeBps, g.Player1Wins, g.Player2Wins)
	if err != nil {
		return nil, errorsmod.Wrap(ErrMathOverflow, err.Error())
	}

	vault := gameVaultAccount(id)
	if err := transferCoins(st, sett.HouseFee, vault, houseVaultAccount); err != nil {
		return nil, err
	}
	if err := transferCoins(st, sett.PayoutP1, vault, g.Player1); err != nil {
		return nil, err
	}
	if err := transferCoins(st, sett.PayoutP2, vault, g.Player2); err != nil {
		return nil, err
	}

	// Keep a compact tombstone: round slots are dropped, the summary stays
	// queryable, and a repeated settle attempt sees status Settled.
	g.TotalPot = 0
	g.Status = state.StatusSettled
	for i := range g.Rounds {
		g.Rounds[i] = &state.Round{}
	}

	a.logger.Info("game settled",
		"gameId", id.String(),
		"payoutP1", sett.PayoutP1,
		"payoutP2", sett.PayoutP2,
		"houseFee", sett.HouseFee,
	)

	return okEvent(EventGameSettled, map[string]string{
		"gameId":      id.String(),
		"payoutP1":    fmt.Sprintf("%d", sett.PayoutP1),
		"payoutP2":    fmt.Sprintf("%d", sett.PayoutP2),
		"houseFee":    fmt.Sprintf("%d", sett.HouseFee),
		"player1Wins": fmt.Sprintf("%d", g.Player1Wins),
		"player2Wins": fmt.Sprintf("%d", g.Player2Wins),
	}), nil
}

// handleCloseTimedOutGame reclaims a match nobody joined: after the creation
// timeout the creator's bet comes back and the record is deleted. The entry
// fee stays with the house.
func (a *RPSApp) handleCloseTimedOutGame(st *state.State, env codec.TxEnvelope, msg codec.CloseTimedOutGameTx, height int64) (*abci.ExecTxResult, error) {
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
	if g.Status != state.StatusWaitingForPlayer2 {
		return nil, errorsmod.Wrapf(ErrGameNotCancellable, "status %s", g.Status)
	}
	deadline, err := addInt64AndU64Checked(g.CreatedHeight, rps.CreationTimeoutBlocks, "creation deadline")
	if err != nil {
		return nil, errorsmod.Wrap(ErrMathOverflow, err.Error())
	}
	if height < deadline {
		return nil, errorsmod.Wrapf(ErrNotTimedOut, "height %d, timeout at %d", height, deadline)
	}

	refund := g.TotalPot
	if refund > 0 {
		if err := transferCoins(st, refund, gameVaultAccount(id), g.Player1); err != nil {
			return nil, err
		}
	}
	delete(st.Games, id.String())

	return okEvent(EventGameClosed, map[string]string{
		"gameId":   id.String(),
		"refundP1": fmt.Sprintf("%d", refund),
	}), nil
}
