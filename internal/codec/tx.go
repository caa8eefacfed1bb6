package codec

import (
	"encoding/json"
	"fmt"
)

// TxEnvelope is the v0 transaction container.
//
// CometBFT transactions are opaque bytes. For v0 localnet we use JSON-encoded
// txs to move fast; this is NOT the final protocol encoding.
type TxEnvelope struct {
	// Basic routing.
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Tx auth:
	// - Nonce: included in the signed message for replay protection (must increase per signer).
	// - Signer: the account address performing the operation.
	// - Sig: Ed25519 signature over (type, nonce, signer, sha256(value)).
	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// ---- Bank ----

type BankMintTx struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type BankSendTx struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// ---- Auth ----

// Account pubkey registration for tx authentication.
type AuthRegisterAccountTx struct {
	Account string `json:"account"`
	PubKey  []byte `json:"pubKey"` // base64 (32 bytes)
}

// ---- House administration ----

type InitHouseTx struct {
	Admin string `json:"admin"`
}

type SetHouseFeeTx struct {
	Admin     string `json:"admin"`
	NewFeeBps uint32 `json:"newFeeBps"`
}

type WithdrawHouseTx struct {
	Admin  string `json:"admin"`
	Amount uint64 `json:"amount"`
}

// ---- Match lifecycle ----

type CreateGameTx struct {
	Creator   string `json:"creator"`
	GameID    string `json:"gameId"` // 32 bytes, hex
	BetAmount uint64 `json:"betAmount"`
	EntryFee  uint64 `json:"entryFee"`
}

// JoinGameTx deliberately carries no amounts: the joiner pays the bet and fee
// stored on the game record, so the terms cannot be renegotiated at join time.
type JoinGameTx struct {
	Player string `json:"player"`
	GameID string `json:"gameId"`
}

type AuthorizeSessionTx struct {
	Player      string `json:"player"`
	GameID      string `json:"gameId"`
	SessionAddr string `json:"sessionAddr"`
}

type ForfeitGameTx struct {
	Caller         string `json:"caller"`
	GameID         string `json:"gameId"`
	LoserIsPlayer1 bool   `json:"loserIsPlayer1"`
}

type CancelGameTx struct {
	Caller string `json:"caller"`
	GameID string `json:"gameId"`
}

type SettleGameTx struct {
	Caller string `json:"caller"`
	GameID string `json:"gameId"`
}

type CloseTimedOutGameTx struct {
	Caller string `json:"caller"`
	GameID string `json:"gameId"`
}

// ---- Round protocol ----

type StartRoundTx struct {
	Caller string `json:"caller"`
	GameID string `json:"gameId"`
	Round  uint8  `json:"round"`
}

type CommitMoveTx struct {
	Player     string `json:"player"`
	GameID     string `json:"gameId"`
	Round      uint8  `json:"round"`
	Commitment string `json:"commitment"` // 32 bytes, hex
}

type RevealMoveTx struct {
	Player string `json:"player"`
	GameID string `json:"gameId"`
	Round  uint8  `json:"round"`
	Move   uint8  `json:"move"`
	Nonce  string `json:"nonce"` // 32 bytes, hex
}

type ResolveCommitTimeoutTx struct {
	Caller string `json:"caller"`
	GameID string `json:"gameId"`
	Round  uint8  `json:"round"`
}
