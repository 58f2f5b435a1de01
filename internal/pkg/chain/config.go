package chain

import (
	"errors"
	"strconv"

	"github.com/coverchain/coverchain/internal/pkg/env"
)

// Config holds chain gateway configuration
type Config struct {
	RPCURL          string
	PrivateKey      string // hex-encoded signer key for mirror transactions
	RegistryAddress string // PolicyRegistry contract address
	ChainID         int64
	Enabled         bool
}

// LoadConfig loads chain configuration from environment variables.
// The gateway is disabled when CHAIN_RPC_URL is unset; mirror jobs then
// complete as logged no-ops.
func LoadConfig() (*Config, error) {
	chainID, err := strconv.ParseInt(env.GetEnv("CHAIN_ID", "31337"), 10, 64)
	if err != nil {
		return nil, errors.New("CHAIN_ID must be an integer")
	}

	config := &Config{
		RPCURL:          env.GetEnv("CHAIN_RPC_URL", ""),
		PrivateKey:      env.GetEnv("CHAIN_PRIVATE_KEY", ""),
		RegistryAddress: env.GetEnv("CHAIN_REGISTRY_ADDRESS", ""),
		ChainID:         chainID,
	}
	config.Enabled = config.RPCURL != ""

	if config.Enabled {
		if config.PrivateKey == "" {
			return nil, errors.New("CHAIN_PRIVATE_KEY is required when CHAIN_RPC_URL is set")
		}
		if config.RegistryAddress == "" {
			return nil, errors.New("CHAIN_REGISTRY_ADDRESS is required when CHAIN_RPC_URL is set")
		}
	}

	return config, nil
}
