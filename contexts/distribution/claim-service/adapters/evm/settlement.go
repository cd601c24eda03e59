package evmadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"tipdrop/contexts/distribution/claim-service/ports"
)

// claim(bytes32) pays out one slot of the drop to the submitted recipient.
// The contract re-checks remaining capacity and per-wallet dedup on chain,
// so a lost local race still cannot double-pay.
const claimContractABI = `[
  {"type":"function","name":"claim","stateMutability":"nonpayable",
   "inputs":[{"name":"dropId","type":"bytes32"},{"name":"recipient","type":"address"}],
   "outputs":[]}
]`

type SettlementConfig struct {
	RPCURL              string
	ChainID             int64
	DropContractAddress string
	PrivateKeyHex       string
}

// Settlement submits claim transactions to the drop contract and waits for
// finality, returning the tx hash as the settlement reference.
type Settlement struct {
	client       *ethclient.Client
	dropContract *bind.BoundContract
	opts         *bind.TransactOpts
	logger       *slog.Logger
}

func NewSettlement(cfg SettlementConfig, logger *slog.Logger) (*Settlement, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RPCURL == "" || cfg.DropContractAddress == "" || cfg.PrivateKeyHex == "" {
		return nil, errors.New("rpc url, drop contract address, and settlement key are required")
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse settlement key: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(cfg.ChainID))
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(claimContractABI))
	if err != nil {
		return nil, fmt.Errorf("parse claim abi: %w", err)
	}
	dropAddress := common.HexToAddress(cfg.DropContractAddress)

	return &Settlement{
		client:       client,
		dropContract: bind.NewBoundContract(dropAddress, parsed, client, client, client),
		opts:         opts,
		logger:       logger,
	}, nil
}

func (s *Settlement) Claim(ctx context.Context, dropID, walletAddress string) (string, error) {
	if !common.IsHexAddress(walletAddress) {
		return "", fmt.Errorf("malformed recipient address %q", walletAddress)
	}

	if !strings.HasPrefix(dropID, "0x") || len(dropID) != 2+2*common.HashLength {
		return "", fmt.Errorf("malformed drop id %q", dropID)
	}
	id := common.HexToHash(dropID)

	opts := *s.opts
	opts.Context = ctx

	tx, err := s.dropContract.Transact(&opts, "claim", id, common.HexToAddress(walletAddress))
	if err != nil {
		return "", fmt.Errorf("submit claim: %w", err)
	}
	s.logger.Info("claim transaction submitted",
		"event", "claim_tx_submitted",
		"module", "distribution/claim-service",
		"layer", "adapter",
		"drop_id", dropID,
		"tx_hash", tx.Hash().Hex(),
	)

	receipt, err := bind.WaitMined(ctx, s.client, tx)
	if err != nil {
		return "", fmt.Errorf("await claim: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("claim reverted: tx %s", tx.Hash().Hex())
	}
	return tx.Hash().Hex(), nil
}

var _ ports.Settlement = (*Settlement)(nil)
