package rps

import "fmt"

// Settlement is the final distribution of a match pot. Exactly
// PayoutP1 + PayoutP2 + HouseFee == pot holds for every successful result.
type Settlement struct {
	PayoutP1 uint64
	PayoutP2 uint64
	HouseFee uint64
}

// ComputeSettlement splits a pot given the snapshotted fee rate and the final
// win tallies.
//
// Decisive result: fee = floor(pot*feeBps/10000), winner takes pot-fee.
// Draw: no fee; the pot halves with any odd unit assigned to player1. The
// asymmetric remainder rule is part of the wire-compatible protocol and must
// not be "fixed".
//
// All arithmetic is overflow-checked; an overflow aborts settlement with no
// distribution computed.
func ComputeSettlement(pot uint64, feeBps uint32, p1Wins, p2Wins uint8) (Settlement, error) {
	if p1Wins == p2Wins {
		half := pot / 2
		remainder := pot - half*2
		return Settlement{
			PayoutP1: half + remainder,
			PayoutP2: half,
		}, nil
	}

	scaled, err := mulUint64Checked(pot, uint64(feeBps), "house fee")
	if err != nil {
		return Settlement{}, err
	}
	fee := scaled / BpsDenominator
	if fee > pot {
		return Settlement{}, fmt.Errorf("house fee %d exceeds pot %d", fee, pot)
	}
	winnerAmount := pot - fee

	if p1Wins > p2Wins {
		return Settlement{PayoutP1: winnerAmount, HouseFee: fee}, nil
	}
	return Settlement{PayoutP2: winnerAmount, HouseFee: fee}, nil
}

func mulUint64Checked(a uint64, b uint64, field string) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > ^uint64(0)/b {
		return 0, fmt.Errorf("%s overflows uint64", field)
	}
	return a * b, nil
}
