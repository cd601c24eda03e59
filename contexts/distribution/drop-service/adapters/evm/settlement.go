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

	"tipdrop/contexts/distribution/drop-service/domain/entities"
	"tipdrop/contexts/distribution/drop-service/ports"
)

// The drop contract mints drops and emits the authoritative drop id through
// the DropCreated event; native-token drops carry the amount as tx value,
// USDC legs require an allowance grant first.
const dropContractABI = `[
  {"type":"function","name":"createDrop","stateMutability":"payable",
   "inputs":[{"name":"token","type":"string"},{"name":"totalAmount","type":"uint256"},{"name":"numRecipients","type":"uint256"}],
   "outputs":[{"name":"dropId","type":"bytes32"}]},
  {"type":"function","name":"createDualDrop","stateMutability":"payable",
   "inputs":[{"name":"avaxAmount","type":"uint256"},{"name":"usdcAmount","type":"uint256"},{"name":"numRecipients","type":"uint256"}],
   "outputs":[{"name":"dropId","type":"bytes32"}]},
  {"type":"event","name":"DropCreated","anonymous":false,
   "inputs":[{"name":"dropId","type":"bytes32","indexed":true},{"name":"creator","type":"address","indexed":true},
             {"name":"token","type":"string","indexed":false},{"name":"totalAmount","type":"uint256","indexed":false},
             {"name":"numRecipients","type":"uint256","indexed":false}]}
]`

const erc20ABI = `[
  {"type":"function","name":"approve","stateMutability":"nonpayable",
   "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]}
]`

const (
	avaxDecimals = 18
	usdcDecimals = 6
)

type SettlementConfig struct {
	RPCURL              string
	ChainID             int64
	DropContractAddress string
	USDCContractAddress string
	PrivateKeyHex       string
}

// Settlement drives the drop contract over JSON-RPC with the service signer.
type Settlement struct {
	client       *ethclient.Client
	dropAddress  common.Address
	dropContract *bind.BoundContract
	dropABI      abi.ABI
	usdcContract *bind.BoundContract
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

	parsedDrop, err := abi.JSON(strings.NewReader(dropContractABI))
	if err != nil {
		return nil, fmt.Errorf("parse drop abi: %w", err)
	}
	dropAddress := common.HexToAddress(cfg.DropContractAddress)

	s := &Settlement{
		client:       client,
		dropAddress:  dropAddress,
		dropContract: bind.NewBoundContract(dropAddress, parsedDrop, client, client, client),
		dropABI:      parsedDrop,
		opts:         opts,
		logger:       logger,
	}

	if cfg.USDCContractAddress != "" {
		parsedERC20, err := abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			return nil, fmt.Errorf("parse erc20 abi: %w", err)
		}
		s.usdcContract = bind.NewBoundContract(common.HexToAddress(cfg.USDCContractAddress), parsedERC20, client, client, client)
	}
	return s, nil
}

func (s *Settlement) CreateDrop(ctx context.Context, token entities.TokenKind, totalAmount decimal.Decimal, recipients int) (string, error) {
	var value *big.Int
	var amount *big.Int
	switch token {
	case entities.TokenAVAX:
		amount = baseUnits(totalAmount, avaxDecimals)
		value = amount
	case entities.TokenUSDC:
		amount = baseUnits(totalAmount, usdcDecimals)
		value = big.NewInt(0)
		if err := s.approveUSDC(ctx, amount); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported token kind %q", token)
	}

	tx, err := s.transact(ctx, value, "createDrop", string(token), amount, big.NewInt(int64(recipients)))
	if err != nil {
		return "", err
	}
	return s.dropIDFromReceipt(ctx, tx)
}

func (s *Settlement) CreateDualDrop(ctx context.Context, avaxAmount, usdcAmount decimal.Decimal, recipients int) (string, error) {
	avax := baseUnits(avaxAmount, avaxDecimals)
	usdc := baseUnits(usdcAmount, usdcDecimals)

	if err := s.approveUSDC(ctx, usdc); err != nil {
		return "", err
	}

	tx, err := s.transact(ctx, avax, "createDualDrop", avax, usdc, big.NewInt(int64(recipients)))
	if err != nil {
		return "", err
	}
	return s.dropIDFromReceipt(ctx, tx)
}

func (s *Settlement) approveUSDC(ctx context.Context, amount *big.Int) error {
	if s.usdcContract == nil {
		return errors.New("usdc contract address not configured")
	}
	opts := *s.opts
	opts.Context = ctx

	tx, err := s.usdcContract.Transact(&opts, "approve", s.dropAddress, amount)
	if err != nil {
		return fmt.Errorf("submit usdc approval: %w", err)
	}
	receipt, err := bind.WaitMined(ctx, s.client, tx)
	if err != nil {
		return fmt.Errorf("await usdc approval: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("usdc approval reverted: tx %s", tx.Hash().Hex())
	}
	return nil
}

func (s *Settlement) transact(ctx context.Context, value *big.Int, method string, args ...any) (*types.Transaction, error) {
	opts := *s.opts
	opts.Context = ctx
	opts.Value = value

	tx, err := s.dropContract.Transact(&opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("submit %s: %w", method, err)
	}
	s.logger.Info("settlement transaction submitted",
		"event", "settlement_tx_submitted",
		"module", "distribution/drop-service",
		"layer", "adapter",
		"method", method,
		"tx_hash", tx.Hash().Hex(),
	)
	return tx, nil
}

func (s *Settlement) dropIDFromReceipt(ctx context.Context, tx *types.Transaction) (string, error) {
	receipt, err := bind.WaitMined(ctx, s.client, tx)
	if err != nil {
		return "", fmt.Errorf("await mint: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("mint reverted: tx %s", tx.Hash().Hex())
	}

	eventID := s.dropABI.Events["DropCreated"].ID
	for _, entry := range receipt.Logs {
		if entry.Address != s.dropAddress || len(entry.Topics) < 2 || entry.Topics[0] != eventID {
			continue
		}
		return entry.Topics[1].Hex(), nil
	}
	return "", fmt.Errorf("no DropCreated event in tx %s", tx.Hash().Hex())
}

func baseUnits(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Truncate(0).BigInt()
}

var _ ports.Settlement = (*Settlement)(nil)
