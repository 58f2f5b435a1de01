package objectstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// PinResult describes a pinned object: the content identifier and a
// URL it can be retrieved from.
type PinResult struct {
	Cid        string `json:"cid"`
	GatewayURL string `json:"gateway_url"`
}

// Gateway pins byte buffers to content-addressed storage.
type Gateway interface {
	Pin(ctx context.Context, data []byte, filename string) (*PinResult, error)
}

// NewGateway creates the backend selected by config.
func NewGateway(cfg *Config) (Gateway, error) {
	switch cfg.Backend {
	case BackendPinata:
		return NewPinataClient(cfg), nil
	case BackendS3:
		return NewS3Client(cfg)
	default:
		return nil, fmt.Errorf("unknown object storage backend %q", cfg.Backend)
	}
}

var (
	globalGateway Gateway
	gatewayMu     sync.Mutex
)

// SetupGateway initializes the global object storage gateway from
// environment configuration.
func SetupGateway() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Errorf("[ObjectStore] Invalid configuration: %v", err)
		panic(err)
	}

	gw, err := NewGateway(cfg)
	if err != nil {
		log.Errorf("[ObjectStore] Failed to initialize %s backend: %v", cfg.Backend, err)
		panic(err)
	}

	log.Infof("[ObjectStore] Using %s backend", cfg.Backend)
	SetGateway(gw)
}

// GetGateway returns the global object storage gateway.
func GetGateway() Gateway {
	gatewayMu.Lock()
	defer gatewayMu.Unlock()
	if globalGateway == nil {
		panic("Object storage gateway not initialized. Call SetupGateway first.")
	}
	return globalGateway
}

// SetGateway overrides the global gateway. Used by tests.
func SetGateway(g Gateway) {
	gatewayMu.Lock()
	defer gatewayMu.Unlock()
	globalGateway = g
}
