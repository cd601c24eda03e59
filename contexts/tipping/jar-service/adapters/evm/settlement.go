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
	"github.com/shopspring/decimal"

	"tipdrop/contexts/tipping/jar-service/ports"
)

// The jar contract holds native-token deposits per wallet. deposit()
// credits the sending wallet; jarBalances is a public mapping read.
const jarContractABI = `[
  {"type":"function","name":"deposit","stateMutability":"payable","inputs":[],"outputs":[]},
  {"type":"function","name":"jarBalances","stateMutability":"view",
   "inputs":[{"name":"","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]}
]`

const avaxDecimals = 18

type SettlementConfig struct {
	RPCURL             string
	ChainID            int64
	JarContractAddress string
	PrivateKeyHex      string
}

// Settlement drives the jar contract over JSON-RPC with the service signer.
type Settlement struct {
	client      *ethclient.Client
	jarContract *bind.BoundContract
	opts        *bind.TransactOpts
	logger      *slog.Logger
}

func NewSettlement(cfg SettlementConfig, logger *slog.Logger) (*Settlement, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RPCURL == "" || cfg.JarContractAddress == "" || cfg.PrivateKeyHex == "" {
		return nil, errors.New("rpc url, jar contract address, and settlement key are required")
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

	parsed, err := abi.JSON(strings.NewReader(jarContractABI))
	if err != nil {
		return nil, fmt.Errorf("parse jar abi: %w", err)
	}

	return &Settlement{
		client:      client,
		jarContract: bind.NewBoundContract(common.HexToAddress(cfg.JarContractAddress), parsed, client, client, client),
		opts:        opts,
		logger:      logger,
	}, nil
}

func (s *Settlement) Deposit(ctx context.Context, walletAddress string, amount decimal.Decimal) (string, error) {
	opts := *s.opts
	opts.Context = ctx
	opts.Value = amount.Shift(avaxDecimals).Truncate(0).BigInt()

	tx, err := s.jarContract.Transact(&opts, "deposit")
	if err != nil {
		return "", fmt.Errorf("submit deposit: %w", err)
	}
	s.logger.Info("jar deposit submitted",
		"event", "jar_deposit_submitted",
		"module", "tipping/jar-service",
		"layer", "adapter",
		"wallet_address", walletAddress,
		"tx_hash", tx.Hash().Hex(),
	)

	receipt, err := bind.WaitMined(ctx, s.client, tx)
	if err != nil {
		return "", fmt.Errorf("await deposit: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("deposit reverted: tx %s", tx.Hash().Hex())
	}
	return tx.Hash().Hex(), nil
}

func (s *Settlement) JarBalance(ctx context.Context, walletAddress string) (decimal.Decimal, error) {
	if !common.IsHexAddress(walletAddress) {
		return decimal.Zero, fmt.Errorf("malformed wallet address %q", walletAddress)
	}

	var out []any
	err := s.jarContract.Call(&bind.CallOpts{Context: ctx}, &out, "jarBalances", common.HexToAddress(walletAddress))
	if err != nil {
		return decimal.Zero, fmt.Errorf("read jar balance: %w", err)
	}
	if len(out) == 0 {
		return decimal.Zero, errors.New("empty jarBalances response")
	}
	raw, ok := out[0].(*big.Int)
	if !ok {
		return decimal.Zero, errors.New("unexpected jarBalances response type")
	}
	return decimal.NewFromBigInt(raw, -avaxDecimals), nil
}

var _ ports.Settlement = (*Settlement)(nil)
