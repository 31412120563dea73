package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megapost/internal/config"
)

func newTestFacebookClient(handler http.HandlerFunc) (*FacebookClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	c := NewFacebookClient(config.FacebookConfig{GraphURL: server.URL}, server.Client())
	return c, server
}

func TestFacebookClient_EditPost(t *testing.T) {
	var gotPath, gotContentType, gotMessage, gotToken string

	c, server := newTestFacebookClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotMessage = r.PostFormValue("message")
		gotToken = r.PostFormValue("access_token")
		w.Write([]byte(`{"success":true}`))
	})
	defer server.Close()

	err := c.EditPost(context.Background(), "1234_5678", "updated body", "page-token")
	require.NoError(t, err)

	assert.Equal(t, "/1234_5678", gotPath)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "updated body", gotMessage)
	assert.Equal(t, "page-token", gotToken)
}

func TestFacebookClient_EditPost_GraphError(t *testing.T) {
	c, server := newTestFacebookClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"Unsupported post request"}}`))
	})
	defer server.Close()

	err := c.EditPost(context.Background(), "1234_5678", "body", "page-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported post request")
}
