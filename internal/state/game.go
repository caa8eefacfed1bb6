package state

import "rpschain/internal/rps"

type GameStatus string

const (
	StatusWaitingForPlayer2 GameStatus = "waitingForPlayer2"
	StatusActive            GameStatus = "active"
	StatusFinished          GameStatus = "finished"
	StatusCancelled         GameStatus = "cancelled"
	StatusSettled           GameStatus = "settled"
)

// Round is one commit-reveal slot of a match.
//
// Invariants: CommitDeadline is set at most once (0 = the round was never
// started); a round is never resolved twice; a move is only stored after its
// commitment verified against the stored digest.
type Round struct {
	CommitmentP1 []byte `json:"commitmentP1,omitempty"` // 32-byte digest (base64 in JSON)
	CommitmentP2 []byte `json:"commitmentP2,omitempty"`
	CommittedP1  bool   `json:"committedP1,omitempty"`
	CommittedP2  bool   `json:"committedP2,omitempty"`

	MoveP1     uint8 `json:"moveP1,omitempty"`
	MoveP2     uint8 `json:"moveP2,omitempty"`
	RevealedP1 bool  `json:"revealedP1,omitempty"`
	RevealedP2 bool  `json:"revealedP2,omitempty"`

	// CommitDeadline is the block height at/before which commits are accepted.
	CommitDeadline int64 `json:"commitDeadline,omitempty"`

	Resolved bool `json:"resolved,omitempty"`
}

// Game is the durable record of one match.
type Game struct {
	ID string `json:"id"` // 32-byte match id, hex

	Player1 string `json:"player1"`
	Player2 string `json:"player2,omitempty"` // empty until joined

	// Delegated session signers allowed to act for each player. The
	// commitment scheme always binds the primary identity, never these.
	SessionP1 string `json:"sessionP1,omitempty"`
	SessionP2 string `json:"sessionP2,omitempty"`

	BetAmount uint64 `json:"betAmount"`
	EntryFee  uint64 `json:"entryFee"`
	// TotalPot holds bets only; entry fees go straight to the house vault.
	TotalPot    uint64 `json:"totalPot"`
	HouseFeeBps uint32 `json:"houseFeeBps"` // snapshotted at creation

	RoundsPlayed uint8      `json:"roundsPlayed"`
	Player1Wins  uint8      `json:"player1Wins"`
	Player2Wins  uint8      `json:"player2Wins"`
	Status       GameStatus `json:"status"`

	CreatedHeight int64 `json:"createdHeight"`

	Rounds []*Round `json:"rounds"`
}

func NewGame(id string, player1 string, betAmount, entryFee uint64, feeBps uint32, height int64) *Game {
	g := &Game{
		ID:            id,
		Player1:       player1,
		BetAmount:     betAmount,
		EntryFee:      entryFee,
		TotalPot:      betAmount,
		HouseFeeBps:   feeBps,
		Status:        StatusWaitingForPlayer2,
		CreatedHeight: height,
	}
	normalizeGame(g)
	return g
}

// normalizeGame repairs the round slice after decoding (defends the round
// invariants against older or hand-edited state files, mirroring the rest of
// the normalization pass).
func normalizeGame(g *Game) {
	if g == nil {
		return
	}
	if len(g.Rounds) < rps.MaxRounds {
		padded := make([]*Round, rps.MaxRounds)
		copy(padded, g.Rounds)
		g.Rounds = padded
	} else if len(g.Rounds) > rps.MaxRounds {
		g.Rounds = g.Rounds[:rps.MaxRounds]
	}
	for i := range g.Rounds {
		if g.Rounds[i] == nil {
			g.Rounds[i] = &Round{}
		}
	}
	if g.Status == "" {
		g.Status = StatusWaitingForPlayer2
	}
}
