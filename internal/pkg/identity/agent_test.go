package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressDid(t *testing.T) {
	assert.Equal(t, "did:ethr:localhost:0xabc", AddressDid("0xabc"))
}

func TestHTTPAgentCreateDID(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/agent/didManagerCreate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"did":   "did:ethr:localhost:0xfresh",
			"alias": "acme",
		})
	}))
	defer srv.Close()

	t.Setenv("DID_AGENT_URL", srv.URL)
	agent := NewHTTPAgent()

	ident, err := agent.CreateDID(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "did:ethr:localhost:0xfresh", ident.Did)
	assert.Equal(t, "acme", ident.Alias)

	assert.Equal(t, "did:ethr:localhost", gotBody["provider"])
	assert.Equal(t, "local", gotBody["kms"])
	assert.Equal(t, "acme", gotBody["alias"])
}

func TestHTTPAgentCreateDIDOmitsEmptyAlias(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]string{"did": "did:ethr:localhost:0xfresh"})
	}))
	defer srv.Close()

	t.Setenv("DID_AGENT_URL", srv.URL)
	agent := NewHTTPAgent()

	_, err := agent.CreateDID(context.Background(), "  ")
	require.NoError(t, err)
	_, hasAlias := gotBody["alias"]
	assert.False(t, hasAlias)
}

func TestHTTPAgentCreateDIDErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "kms locked", http.StatusInternalServerError)
	}))
	defer srv.Close()

	t.Setenv("DID_AGENT_URL", srv.URL)
	agent := NewHTTPAgent()

	_, err := agent.CreateDID(context.Background(), "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did agent returned")
}
