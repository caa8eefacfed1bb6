package rps

// Move is a single hidden move: 0 = Rock, 1 = Paper, 2 = Scissors.
type Move uint8

const (
	MoveRock     Move = 0
	MovePaper    Move = 1
	MoveScissors Move = 2
)

func (m Move) Valid() bool {
	return m <= MoveScissors
}

func (m Move) String() string {
	switch m {
	case MoveRock:
		return "rock"
	case MovePaper:
		return "paper"
	case MoveScissors:
		return "scissors"
	default:
		return "invalid"
	}
}

// RoundResult is the outcome of one round from player1's perspective.
type RoundResult uint8

const (
	ResultDraw RoundResult = iota
	ResultPlayer1Win
	ResultPlayer2Win
)

func (r RoundResult) String() string {
	switch r {
	case ResultPlayer1Win:
		return "player1"
	case ResultPlayer2Win:
		return "player2"
	default:
		return "draw"
	}
}

// RoundWinner resolves a pair of revealed moves. The precedence is spelled out
// as an explicit table rather than modular arithmetic so it can be audited
// against the protocol definition pair by pair.
func RoundWinner(m1, m2 Move) RoundResult {
	if m1 == m2 {
		return ResultDraw
	}
	switch {
	case m1 == MoveRock && m2 == MoveScissors,
		m1 == MovePaper && m2 == MoveRock,
		m1 == MoveScissors && m2 == MovePaper:
		return ResultPlayer1Win
	case m1 == MoveScissors && m2 == MoveRock,
		m1 == MoveRock && m2 == MovePaper,
		m1 == MovePaper && m2 == MoveScissors:
		return ResultPlayer2Win
	}
	return ResultDraw
}
