package objectstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2/log"
)

// PinataClient pins files through a Pinata-compatible HTTP API.
type PinataClient struct {
	client      *resty.Client
	gatewayBase string
}

type pinFileResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// NewPinataClient creates a pinning client from config.
func NewPinataClient(cfg *Config) *PinataClient {
	client := resty.New().
		SetBaseURL(cfg.PinataBaseURL).
		SetTimeout(60 * time.Second).
		SetAuthToken(cfg.PinataJWT)

	return &PinataClient{
		client:      client,
		gatewayBase: cfg.GatewayBase,
	}
}

// Pin uploads the buffer to the pinning service and returns its CID
// and gateway URL.
func (p *PinataClient) Pin(ctx context.Context, data []byte, filename string) (*PinResult, error) {
	var out pinFileResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytesReader(data)).
		SetResult(&out).
		Post("/pinning/pinFileToIPFS")
	if err != nil {
		return nil, fmt.Errorf("pinning service unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("pinning service returned %s: %s", resp.Status(), resp.String())
	}
	if out.IpfsHash == "" {
		return nil, fmt.Errorf("pinning service returned no CID")
	}

	log.Infof("[ObjectStore] Pinned %s as %s (%d bytes)", filename, out.IpfsHash, len(data))
	return &PinResult{
		Cid:        out.IpfsHash,
		GatewayURL: fmt.Sprintf("%s/%s", p.gatewayBase, out.IpfsHash),
	}, nil
}
