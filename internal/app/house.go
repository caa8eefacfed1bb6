package app

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"rpschain/internal/codec"
	"rpschain/internal/rps"
	"rpschain/internal/state"
)

func (a *RPSApp) handleInitHouse(st *state.State, env codec.TxEnvelope, msg codec.InitHouseTx) (*abci.ExecTxResult, error) {
	if msg.Admin == "" {
		return nil, errorsmod.Wrap(ErrInvalidRequest, "missing admin")
	}
	if err := requireAccountAuth(st, env, msg.Admin); err != nil {
		return nil, errorsmod.Wrap(ErrUnauthorized, err.Error())
	}
	if st.House != nil {
		return nil, errorsmod.Wrapf(ErrHouseAlreadyInitialized, "admin %q", st.House.Admin)
	}
	st.House = &state.HouseVault{
		Admin:  msg.Admin,
		FeeBps: rps.DefaultHouseFeeBps,
	}
	return okEvent(EventHouseInitialized, map[string]string{
		"admin":  msg.Admin,
		"feeBps": fmt.Sprintf("%d", rps.DefaultHouseFeeBps),
	}), nil
}

func (a *RPSApp) handleSetHouseFee(st *state.State, env codec.TxEnvelope, msg codec.SetHouseFeeTx) (*abci.ExecTxResult, error) {
	if msg.Admin == "" {
		return nil, errorsmod.Wrap(ErrInvalidRequest, "missing admin")
	}
	if err := requireAccountAuth(st, env, msg.Admin); err != nil {
		return nil, errorsmod.Wrap(ErrUnauthorized, err.Error())
	}
	if st.House == nil {
		return nil, errorsmod.Wrap(ErrHouseNotInitialized, "rps/init_house required")
	}
	if msg.Admin != st.House.Admin {
		return nil, errorsmod.Wrapf(ErrUnauthorized, "%q is not the house admin", msg.Admin)
	}
	if msg.NewFeeBps > rps.MaxHouseFeeBps {
		return nil, errorsmod.Wrapf(ErrInvalidHouseFee, "%d bps exceeds max %d", msg.NewFeeBps, rps.MaxHouseFeeBps)
	}
	// Snapshotted copies on in-flight matches are unaffected.
	st.House.FeeBps = msg.NewFeeBps
	return okEvent(EventHouseFeeUpdated, map[string]string{
		"admin":  msg.Admin,
		"feeBps": fmt.Sprintf("%d", msg.NewFeeBps),
	}), nil
}

func (a *RPSApp) handleWithdrawHouse(st *state.State, env codec.TxEnvelope, msg codec.WithdrawHouseTx) (*abci.ExecTxResult, error) {
	if msg.Admin == "" {
		return nil, errorsmod.Wrap(ErrInvalidRequest, "missing admin")
	}
	if msg.Amount == 0 {
		return nil, errorsmod.Wrap(ErrInvalidRequest, "missing amount")
	}
	if err := requireAccountAuth(st, env, msg.Admin); err != nil {
		return nil, errorsmod.Wrap(ErrUnauthorized, err.Error())
	}
	if st.House == nil {
		return nil, errorsmod.Wrap(ErrHouseNotInitialized, "rps/init_house required")
	}
	if msg.Admin != st.House.Admin {
		return nil, errorsmod.Wrapf(ErrUnauthorized, "%q is not the house admin", msg.Admin)
	}
	if err := transferCoins(st, msg.Amount, houseVaultAccount, msg.Admin); err != nil {
		return nil, err
	}
	return okEvent(EventHouseWithdrawn, map[string]string{
		"admin":  msg.Admin,
		"amount": fmt.Sprintf("%d", msg.Amount),
	}), nil
}
