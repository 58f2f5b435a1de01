package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gofiber/fiber/v2/log"

	"github.com/coverchain/coverchain/internal/pkg/apperrors"
)

// registryABI covers the registry calls the backend mirrors. The
// contract itself lives outside this repository.
const registryABI = `[
	{"type":"function","name":"approveProvider","stateMutability":"nonpayable","inputs":[{"name":"provider","type":"address"}],"outputs":[]}
]`

// Gateway mirrors selected approvals onto the policy registry contract.
type Gateway interface {
	// ApproveProvider sends the approveProvider transaction and waits
	// for it to be mined. Returns the transaction hash.
	ApproveProvider(ctx context.Context, providerAddress string) (string, error)
	Enabled() bool
}

// Client is the ethclient-backed Gateway implementation.
type Client struct {
	eth      *ethclient.Client
	registry *bind.BoundContract
	opts     *bind.TransactOpts
	enabled  bool
}

// NewClient creates a chain gateway client from config. A disabled
// config yields a client whose calls are logged no-ops.
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.Enabled {
		log.Info("[Chain] Gateway disabled (CHAIN_RPC_URL not set)")
		return &Client{enabled: false}, nil
	}

	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain RPC %s: %w", cfg.RPCURL, err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid chain private key: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(cfg.ChainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry ABI: %w", err)
	}

	registry := bind.NewBoundContract(common.HexToAddress(cfg.RegistryAddress), parsed, eth, eth, eth)

	log.Infof("[Chain] Gateway connected, registry %s", cfg.RegistryAddress)
	return &Client{
		eth:      eth,
		registry: registry,
		opts:     opts,
		enabled:  true,
	}, nil
}

// Enabled reports whether the gateway has a live RPC connection.
func (c *Client) Enabled() bool {
	return c.enabled
}

// ApproveProvider mirrors a provider approval on-chain and waits for
// the receipt.
func (c *Client) ApproveProvider(ctx context.Context, providerAddress string) (string, error) {
	if !c.enabled {
		log.Infof("[Chain] Gateway disabled, skipping approveProvider(%s)", providerAddress)
		return "", nil
	}

	if !common.IsHexAddress(providerAddress) {
		return "", &apperrors.ChainError{Op: "approveProvider", Err: fmt.Errorf("invalid address %q", providerAddress)}
	}

	opts := *c.opts
	opts.Context = ctx

	tx, err := c.registry.Transact(&opts, "approveProvider", common.HexToAddress(providerAddress))
	if err != nil {
		return "", &apperrors.ChainError{Op: "approveProvider", Err: err}
	}

	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return tx.Hash().Hex(), &apperrors.ChainError{Op: "approveProvider: wait mined", Err: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return tx.Hash().Hex(), &apperrors.ChainError{Op: "approveProvider", Err: fmt.Errorf("transaction %s reverted", tx.Hash().Hex())}
	}

	log.Infof("[Chain] Provider %s approved on-chain: %s", providerAddress, tx.Hash().Hex())
	return tx.Hash().Hex(), nil
}

var (
	globalGateway Gateway
	gatewayMu     sync.Mutex
)

// SetupGateway initializes the global chain gateway from environment
// configuration. A setup failure is logged and leaves the gateway
// disabled; the database stays the source of truth either way.
func SetupGateway() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Errorf("[Chain] Invalid configuration, gateway disabled: %v", err)
		SetGateway(&Client{enabled: false})
		return
	}

	client, err := NewClient(cfg)
	if err != nil {
		log.Errorf("[Chain] Failed to connect, gateway disabled: %v", err)
		SetGateway(&Client{enabled: false})
		return
	}
	SetGateway(client)
}

// GetGateway returns the global chain gateway.
func GetGateway() Gateway {
	gatewayMu.Lock()
	defer gatewayMu.Unlock()
	if globalGateway == nil {
		globalGateway = &Client{enabled: false}
	}
	return globalGateway
}

// SetGateway overrides the global gateway. Used by tests.
func SetGateway(g Gateway) {
	gatewayMu.Lock()
	defer gatewayMu.Unlock()
	globalGateway = g
}
