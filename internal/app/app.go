package app

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"

	"rpschain/internal/codec"
	"rpschain/internal/rps"
	"rpschain/internal/state"
)

const (
	AppVersion uint64 = 1
)

// RPSApp is the ABCI application: a bank ledger plus the rock-paper-scissors
// wagering module, persisted as JSON under <home>/app.
type RPSApp struct {
	*abci.BaseApplication

	home   string
	logger log.Logger

	mu       sync.Mutex
	st       *state.State
	lastHash []byte
}

func New(home string, logger log.Logger) (*RPSApp, error) {
	appHome := filepath.Join(home, "app")
	st, err := state.Load(appHome)
	if err != nil {
		return nil, err
	}
	a := &RPSApp{
		BaseApplication: abci.NewBaseApplication(),
		home:            home,
		logger:          logger,
		st:              st,
		lastHash:        st.AppHash(),
	}
	return a, nil
}

func (a *RPSApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             "rpschain (v0)",
		Version:          "v0",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.st.Height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

func (a *RPSApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	_, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		return &abci.CheckTxResponse{Code: 1, Log: err.Error()}, nil
	}
	// Only structural validation here; signatures and state checks run at
	// delivery so the mempool stays cheap.
	return &abci.CheckTxResponse{Code: 0}, nil
}

func (a *RPSApp) InitChain(_ context.Context, _ *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	return &abci.InitChainResponse{}, nil
}

func (a *RPSApp) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Height = req.Height

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		res := a.deliverTx(txBytes, req.Height)
		txResults = append(txResults, res)
	}

	a.lastHash = a.st.AppHash()

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *RPSApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Persist after each block for devnet durability.
	appHome := filepath.Join(a.home, "app")
	if err := a.st.Save(appHome); err != nil {
		// CometBFT expects Commit to not crash; return error so node halts loudly.
		return nil, err
	}
	return &abci.CommitResponse{}, nil
}

func (a *RPSApp) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Paths:
	// - /account/<addr>
	// - /games
	// - /game/<hexId>
	// - /house
	path := strings.TrimSpace(req.Path)
	switch {
	case path == "/games":
		ids := make([]string, 0, len(a.st.Games))
		for id := range a.st.Games {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		b, _ := json.Marshal(ids)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	case path == "/house":
		if a.st.House == nil {
			return &abci.QueryResponse{Code: 1, Log: "house not initialized", Height: a.st.Height}, nil
		}
		b, _ := json.Marshal(map[string]any{
			"admin":   a.st.House.Admin,
			"feeBps":  a.st.House.FeeBps,
			"balance": a.st.Balance(houseVaultAccount),
		})
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	case strings.HasPrefix(path, "/account/"):
		addr := strings.TrimPrefix(path, "/account/")
		bal := a.st.Balance(addr)
		b, _ := json.Marshal(map[string]any{"addr": addr, "balance": bal})
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	case strings.HasPrefix(path, "/game/"):
		raw := strings.TrimPrefix(path, "/game/")
		id, err := rps.ParseGameID(raw)
		if err != nil {
			return &abci.QueryResponse{Code: 1, Log: "invalid game id", Height: a.st.Height}, nil
		}
		g, ok := a.st.Games[id.String()]
		if !ok {
			return &abci.QueryResponse{Code: 1, Log: "game not found", Height: a.st.Height}, nil
		}
		b, _ := json.Marshal(g)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	default:
		return &abci.QueryResponse{Code: 1, Log: "unknown query path", Height: a.st.Height}, nil
	}
}

// deliverTx executes one transaction against a staged copy of state. Any
// error discards the copy, so a failing tx cannot leave partial writes.
func (a *RPSApp) deliverTx(txBytes []byte, height int64) *abci.ExecTxResult {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return errTxResult(errorsmod.Wrap(ErrInvalidRequest, err.Error()))
	}

	staged, err := a.st.Clone()
	if err != nil {
		return errTxResult(fmt.Errorf("state clone: %w", err))
	}

	res, err := a.applyTx(staged, env, height)
	if err != nil {
		a.logger.Debug("tx rejected", "type", env.Type, "err", err)
		return errTxResult(err)
	}

	a.st = staged
	return res
}

func (a *RPSApp) applyTx(st *state.State, env codec.TxEnvelope, height int64) (*abci.ExecTxResult, error) {
	switch env.Type {
	case "bank/mint":
		// Devnet faucet; unsigned.
		var msg codec.BankMintTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad bank/mint value")
		}
		if msg.To == "" || msg.Amount == 0 {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "missing to/amount")
		}
		if isReservedAccount(msg.To) {
			return nil, errorsmod.Wrapf(ErrInvalidRequest, "account %q is reserved for module escrow", msg.To)
		}
		if err := st.Credit(msg.To, msg.Amount); err != nil {
			return nil, errorsmod.Wrap(ErrMathOverflow, err.Error())
		}
		return okEvent(EventBankMinted, map[string]string{
			"to":     msg.To,
			"amount": fmt.Sprintf("%d", msg.Amount),
		}), nil

	case "bank/send":
		var msg codec.BankSendTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad bank/send value")
		}
		if msg.From == "" || msg.To == "" || msg.Amount == 0 {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "missing from/to/amount")
		}
		if isReservedAccount(msg.From) {
			return nil, errorsmod.Wrapf(ErrInvalidRequest, "account %q is reserved for module escrow", msg.From)
		}
		if err := requireAccountAuth(st, env, msg.From); err != nil {
			return nil, errorsmod.Wrap(ErrUnauthorized, err.Error())
		}
		if err := transferCoins(st, msg.Amount, msg.From, msg.To); err != nil {
			return nil, err
		}
		return okEvent(EventBankSent, map[string]string{
			"from":   msg.From,
			"to":     msg.To,
			"amount": fmt.Sprintf("%d", msg.Amount),
		}), nil

	case "auth/register_account":
		var msg codec.AuthRegisterAccountTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad auth/register_account value")
		}
		if err := requireRegisterAccountAuth(st, env, msg); err != nil {
			return nil, errorsmod.Wrap(ErrUnauthorized, err.Error())
		}
		st.AccountKeys[msg.Account] = append([]byte(nil), msg.PubKey...)
		return okEvent(EventAccountRegistered, map[string]string{
			"account": msg.Account,
		}), nil

	case "rps/init_house":
		var msg codec.InitHouseTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/init_house value")
		}
		return a.handleInitHouse(st, env, msg)

	case "rps/set_house_fee":
		var msg codec.SetHouseFeeTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/set_house_fee value")
		}
		return a.handleSetHouseFee(st, env, msg)

	case "rps/withdraw_house":
		var msg codec.WithdrawHouseTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/withdraw_house value")
		}
		return a.handleWithdrawHouse(st, env, msg)

	case "rps/create_game":
		var msg codec.CreateGameTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/create_game value")
		}
		return a.handleCreateGame(st, env, msg, height)

	case "rps/join_game":
		var msg codec.JoinGameTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/join_game value")
		}
		return a.handleJoinGame(st, env, msg)

	case "rps/authorize_session":
		var msg codec.AuthorizeSessionTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/authorize_session value")
		}
		return a.handleAuthorizeSession(st, env, msg)

	case "rps/forfeit_game":
		var msg codec.ForfeitGameTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/forfeit_game value")
		}
		return a.handleForfeitGame(st, env, msg)

	case "rps/cancel_game":
		var msg codec.CancelGameTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/cancel_game value")
		}
		return a.handleCancelGame(st, env, msg)

	case "rps/settle_game":
		var msg codec.SettleGameTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/settle_game value")
		}
		return a.handleSettleGame(st, env, msg)

	case "rps/close_timed_out_game":
		var msg codec.CloseTimedOutGameTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/close_timed_out_game value")
		}
		return a.handleCloseTimedOutGame(st, env, msg, height)

	case "rps/start_round":
		var msg codec.StartRoundTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/start_round value")
		}
		return a.handleStartRound(st, env, msg, height)

	case "rps/commit_move":
		var msg codec.CommitMoveTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/commit_move value")
		}
		return a.handleCommitMove(st, env, msg, height)

	case "rps/reveal_move":
		var msg codec.RevealMoveTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/reveal_move value")
		}
		return a.handleRevealMove(st, env, msg)

	case "rps/resolve_commit_timeout":
		var msg codec.ResolveCommitTimeoutTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return nil, errorsmod.Wrap(ErrInvalidRequest, "bad rps/resolve_commit_timeout value")
		}
		return a.handleResolveCommitTimeout(st, env, msg, height)

	default:
		return nil, errorsmod.Wrapf(ErrInvalidRequest, "unknown tx type: %s", env.Type)
	}
}

func errTxResult(err error) *abci.ExecTxResult {
	space, code, logMsg := errorsmod.ABCIInfo(err, false)
	return &abci.ExecTxResult{Codespace: space, Code: code, Log: logMsg}
}
