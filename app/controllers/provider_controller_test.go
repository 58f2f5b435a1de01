package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coverchain/coverchain/app/models"
	"github.com/coverchain/coverchain/internal/pkg/identity"
	"github.com/coverchain/coverchain/internal/pkg/objectstore"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type fakePinGateway struct {
	lastFilename string
}

func (f *fakePinGateway) Pin(_ context.Context, _ []byte, filename string) (*objectstore.PinResult, error) {
	f.lastFilename = filename
	return &objectstore.PinResult{
		Cid:        "QmTestCid123",
		GatewayURL: "http://gateway.local/ipfs/QmTestCid123",
	}, nil
}

type fakeAgent struct{}

func (fakeAgent) CreateDID(_ context.Context, alias string) (*identity.Identifier, error) {
	return &identity.Identifier{Did: "did:ethr:localhost:0xagent", Alias: alias}, nil
}

func (fakeAgent) IssuerDid() string { return "did:ethr:localhost:0xissuer" }

func newMultipartRequest(t *testing.T, path, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(fw, bytes.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestProviderOnboardPinsLicenseAndCreatesPending(t *testing.T) {
	app, db := setupTestApp(t)
	app.Post("/provider/onboard", HandleProviderOnboard)

	gateway := &fakePinGateway{}
	objectstore.SetGateway(gateway)
	identity.SetAgent(fakeAgent{})

	req := newMultipartRequest(t, "/provider/onboard", "license.png", pngHeader, map[string]string{
		"name":             "Acme Insurance",
		"provider_address": "0xprov",
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "license.png", gateway.lastFilename)

	var stored models.Provider
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, models.ProviderStatusPending, stored.Status)
	assert.Equal(t, "QmTestCid123", stored.LicenseCid)
	assert.Equal(t, "did:ethr:localhost:0xagent", stored.ProviderDid)
	assert.Equal(t, "did:ethr:localhost:0xissuer", stored.IssuerDid)
}

func TestProviderOnboardRejectsMissingFields(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Post("/provider/onboard", HandleProviderOnboard)

	req := newMultipartRequest(t, "/provider/onboard", "license.png", pngHeader, map[string]string{
		"name": "Acme Insurance",
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProviderOnboardRejectsHTMLUpload(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Post("/provider/onboard", HandleProviderOnboard)
	objectstore.SetGateway(&fakePinGateway{})

	req := newMultipartRequest(t, "/provider/onboard", "license.png", []byte("<html><body>x</body></html>"), map[string]string{
		"name":             "Acme Insurance",
		"provider_address": "0xprov",
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFileUploadResponseShape(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Post("/file/upload", HandleFileUpload)
	objectstore.SetGateway(&fakePinGateway{})

	req := newMultipartRequest(t, "/file/upload", "evidence.png", pngHeader, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "QmTestCid123", body["file_cid"])
	assert.Equal(t, "http://gateway.local/ipfs/QmTestCid123", body["gateway_url"])
	assert.Equal(t, "evidence.png", body["filename"])
}

func TestKycUploadCreatesPendingDocument(t *testing.T) {
	app, db := setupTestApp(t)
	app.Post("/kyc/upload", HandleKycUpload)
	objectstore.SetGateway(&fakePinGateway{})

	req := newMultipartRequest(t, "/kyc/upload", "passport.png", pngHeader, map[string]string{
		"user_address":  "0xuser",
		"document_type": "passport",
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "QmTestCid123", body["document_cid"])

	var stored models.KycDocument
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, models.KycStatusPending, stored.Status)
	assert.Equal(t, "did:ethr:localhost:0xuser", stored.UserDid)
}
