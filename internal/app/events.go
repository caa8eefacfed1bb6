package app

import (
	"sort"

	abci "github.com/cometbft/cometbft/abci/types"
)

// Event types emitted by the application.
const (
	EventBankMinted        = "BankMinted"
	EventBankSent          = "BankSent"
	EventAccountRegistered = "AccountRegistered"

	EventHouseInitialized = "HouseInitialized"
	EventHouseFeeUpdated  = "HouseFeeUpdated"
	EventHouseWithdrawn   = "HouseWithdrawn"

	EventGameCreated       = "GameCreated"
	EventGameJoined        = "GameJoined"
	EventSessionAuthorized = "SessionAuthorized"
	EventGameForfeited     = "GameForfeited"
	EventGameCancelled     = "GameCancelled"
	EventGameSettled       = "GameSettled"
	EventGameClosed        = "GameClosed"

	EventRoundStarted  = "RoundStarted"
	EventMoveCommitted = "MoveCommitted"
	EventMoveRevealed  = "MoveRevealed"
	EventRoundResolved = "RoundResolved"
)

// newEvent builds an event with attributes in sorted key order so event
// bytes are deterministic across nodes.
func newEvent(typ string, attrs map[string]string) abci.Event {
	ev := abci.Event{Type: typ}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev.Attributes = append(ev.Attributes, abci.EventAttribute{Key: k, Value: attrs[k], Index: true})
	}
	return ev
}

func okEvent(typ string, attrs map[string]string) *abci.ExecTxResult {
	return &abci.ExecTxResult{
		Code:   0,
		Events: []abci.Event{newEvent(typ, attrs)},
	}
}
