package app

import (
	"fmt"
	"math"
)

func addUint64Checked(a uint64, b uint64, field string) (uint64, error) {
	if a > ^uint64(0)-b {
		return 0, fmt.Errorf("%s overflows uint64", field)
	}
	return a + b, nil
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

func addUint8Checked(a uint8, b uint8, field string) (uint8, error) {
	if a > math.MaxUint8-b {
		return 0, fmt.Errorf("%s overflows uint8", field)
	}
	return a + b, nil
}

// addInt64AndU64Checked adds a block-count delta to a height.
func addInt64AndU64Checked(a int64, b uint64, field string) (int64, error) {
	if b > math.MaxInt64 {
		return 0, fmt.Errorf("%s delta overflows int64", field)
	}
	if a > math.MaxInt64-int64(b) {
		return 0, fmt.Errorf("%s overflows int64", field)
	}
	return a + int64(b), nil
}
