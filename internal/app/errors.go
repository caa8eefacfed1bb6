package app

import errorsmod "cosmossdk.io/errors"

const codespace = "rps"

// Sentinel errors for every failure category. deliverTx maps these onto ABCI
// codes via errorsmod.ABCIInfo, so each failure kind is observable by clients.
var (
	ErrInvalidRequest = errorsmod.Register(codespace, 1, "invalid request")

	// Precondition violations.
	ErrInvalidBetAmount  = errorsmod.Register(codespace, 2, "invalid bet amount")
	ErrInvalidEntryFee   = errorsmod.Register(codespace, 3, "invalid entry fee")
	ErrBetTooLow         = errorsmod.Register(codespace, 4, "bet is below minimum allowed")
	ErrGameNotJoinable   = errorsmod.Register(codespace, 5, "game is not joinable")
	ErrAlreadyHasPlayer2 = errorsmod.Register(codespace, 6, "game already has a second player")
	ErrGameNotActive     = errorsmod.Register(codespace, 7, "game is not active")
	ErrGameNotFinished   = errorsmod.Register(codespace, 8, "game is not finished")
	ErrInvalidRound      = errorsmod.Register(codespace, 9, "invalid round index")
	ErrInvalidMove       = errorsmod.Register(codespace, 10, "invalid move")
	ErrNotAPlayer        = errorsmod.Register(codespace, 11, "player is not part of this game")
	ErrInvalidGameState  = errorsmod.Register(codespace, 12, "invalid game state")
	ErrGameNotFound      = errorsmod.Register(codespace, 13, "game not found")
	ErrGameAlreadyExists = errorsmod.Register(codespace, 14, "game id already in use")

	// Protocol violations.
	ErrAlreadyCommitted       = errorsmod.Register(codespace, 15, "already committed for this round")
	ErrAlreadyRevealed        = errorsmod.Register(codespace, 16, "already revealed for this round")
	ErrCommitmentMismatch     = errorsmod.Register(codespace, 17, "commitment hash does not match")
	ErrBothMustCommitFirst    = errorsmod.Register(codespace, 18, "both players must commit before reveal")
	ErrRoundAlreadyResolved   = errorsmod.Register(codespace, 19, "round already resolved")
	ErrBothCommittedNoTimeout = errorsmod.Register(codespace, 20, "both players committed, timeout resolve not allowed")

	// Arithmetic faults.
	ErrMathOverflow      = errorsmod.Register(codespace, 21, "math overflow")
	ErrInsufficientFunds = errorsmod.Register(codespace, 22, "insufficient funds")

	// Timing faults.
	ErrCommitWindowNotStarted     = errorsmod.Register(codespace, 23, "commit window not started for this round")
	ErrCommitWindowAlreadyStarted = errorsmod.Register(codespace, 24, "commit window already started for this round")
	ErrCommitPhaseExpired         = errorsmod.Register(codespace, 25, "commit phase for this round has expired")
	ErrCommitPhaseNotExpired      = errorsmod.Register(codespace, 26, "commit phase not yet expired")
	ErrNotTimedOut                = errorsmod.Register(codespace, 27, "game has not timed out yet")
	ErrGameNotCancellable         = errorsmod.Register(codespace, 28, "game not cancellable in this state")

	// Authorization / administration.
	ErrUnauthorized            = errorsmod.Register(codespace, 29, "unauthorized")
	ErrInvalidHouseFee         = errorsmod.Register(codespace, 30, "invalid house fee bps")
	ErrHouseNotInitialized     = errorsmod.Register(codespace, 31, "house vault not initialized")
	ErrHouseAlreadyInitialized = errorsmod.Register(codespace, 32, "house vault already initialized")
)
