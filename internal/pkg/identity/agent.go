package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/coverchain/coverchain/internal/pkg/env"
)

// Identifier is a decentralized identifier created by the agent.
type Identifier struct {
	Did   string `json:"did"`
	Alias string `json:"alias,omitempty"`
}

// Agent creates and resolves decentralized identifiers.
type Agent interface {
	CreateDID(ctx context.Context, alias string) (*Identifier, error)
	IssuerDid() string
}

// HTTPAgent talks to a Veramo-style DID agent over its HTTP API.
type HTTPAgent struct {
	client    *resty.Client
	provider  string
	issuerDid string
}

type createDIDRequest struct {
	Alias    string         `json:"alias,omitempty"`
	Provider string         `json:"provider"`
	Kms      string         `json:"kms"`
	Options  map[string]any `json:"options"`
}

type createDIDResponse struct {
	Did   string `json:"did"`
	Alias string `json:"alias"`
}

// NewHTTPAgent creates an agent client from environment configuration.
func NewHTTPAgent() *HTTPAgent {
	baseURL := env.GetEnv("DID_AGENT_URL", "http://localhost:3332")
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey := env.GetEnv("DID_AGENT_API_KEY", ""); apiKey != "" {
		client.SetAuthToken(apiKey)
	}

	return &HTTPAgent{
		client:    client,
		provider:  env.GetEnv("DID_PROVIDER", "did:ethr:localhost"),
		issuerDid: env.GetEnv("ISSUER_DID", ""),
	}
}

// CreateDID asks the agent for a fresh identifier. An empty alias is
// omitted from the request to avoid alias conflicts on the agent side.
func (a *HTTPAgent) CreateDID(ctx context.Context, alias string) (*Identifier, error) {
	req := createDIDRequest{
		Provider: a.provider,
		Kms:      "local",
		Options:  map[string]any{"keyType": "Secp256k1"},
	}
	if trimmed := strings.TrimSpace(alias); trimmed != "" {
		req.Alias = trimmed
	}

	var out createDIDResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/agent/didManagerCreate")
	if err != nil {
		return nil, fmt.Errorf("did agent unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("did agent returned %s: %s", resp.Status(), resp.String())
	}

	log.Infof("[Identity] Created DID %s", out.Did)
	return &Identifier{Did: out.Did, Alias: out.Alias}, nil
}

// IssuerDid returns the configured issuer identifier.
func (a *HTTPAgent) IssuerDid() string {
	return a.issuerDid
}

// AddressDid builds the deterministic did:ethr form of a chain address.
// Used as a fallback when the caller supplies no DID.
func AddressDid(address string) string {
	network := env.GetEnv("DID_NETWORK", "localhost")
	return fmt.Sprintf("did:ethr:%s:%s", network, address)
}

var (
	globalAgent Agent
	agentMu     sync.Mutex
)

// SetupAgent initializes the global identity agent.
func SetupAgent() {
	SetAgent(NewHTTPAgent())
}

// GetAgent returns the global identity agent.
func GetAgent() Agent {
	agentMu.Lock()
	defer agentMu.Unlock()
	if globalAgent == nil {
		globalAgent = NewHTTPAgent()
	}
	return globalAgent
}

// SetAgent overrides the global agent. Used by tests.
func SetAgent(a Agent) {
	agentMu.Lock()
	defer agentMu.Unlock()
	globalAgent = a
}
