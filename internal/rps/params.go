package rps

// Economic and timing parameters of the wagering protocol. Deadlines are
// expressed in block heights; the millisecond constants document how the
// block windows were derived at an estimated 400ms block time.
const (
	MaxRounds  = 5
	WinsTarget = 3

	// MinBetAmount is 0.1 unit in base denomination.
	MinBetAmount uint64 = 100_000_000

	DefaultHouseFeeBps uint32 = 100   // 1%
	MaxHouseFeeBps     uint32 = 1_000 // 10%
	BpsDenominator     uint64 = 10_000

	estimatedBlockMs uint64 = 400
	commitPhaseMs    uint64 = 30_000

	// CommitPhaseBlocks converts the 30-second commit window into blocks,
	// rounded up so the on-chain deadline never undershoots wall time.
	CommitPhaseBlocks uint64 = (commitPhaseMs + estimatedBlockMs - 1) / estimatedBlockMs

	// CreationTimeoutBlocks is how long a game may sit waiting for a second
	// player before anyone can close it (~3 minutes).
	CreationTimeoutBlocks uint64 = 450
)
