package signer

import (
	"encoding/hex"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigningKeyDerivation(t *testing.T) {
	// Known vector from the AWS signature v4 documentation
	s := New("us-east-1", "iam")
	key := s.SigningKey("wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY", "20150830")
	assert.Equal(t,
		"c4afb1cc5771d871763a393e44b703571b55cc28424d1a5e86da6ed3c154a4b9",
		hex.EncodeToString(key))
}

func TestHashHex(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashHex(nil))
	assert.Equal(t, strings.ToLower(HashHex([]byte("payload"))), HashHex([]byte("payload")))
}

func TestHeaderSetOrderingIsSingleSourceOfTruth(t *testing.T) {
	hs := NewHeaderSet(map[string]string{
		"X-Amz-Target":     "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.GetItems",
		"host":             "webservices.amazon.eg",
		"Content-Type":     "application/json; charset=utf-8",
		"content-encoding": "amz-1.0",
		"x-amz-date":       "20260901T120000Z",
	})

	assert.Equal(t, "content-encoding;content-type;host;x-amz-date;x-amz-target", hs.NameList())

	block := hs.CanonicalBlock()
	lines := strings.Split(strings.TrimSuffix(block, "\n"), "\n")
	require.Len(t, lines, 5)

	// Canonical block order must match the signed-header name list exactly
	names := make([]string, len(lines))
	for i, line := range lines {
		names[i] = strings.SplitN(line, ":", 2)[0]
	}
	assert.Equal(t, strings.Split(hs.NameList(), ";"), names)
}

func TestHeaderSetApplySetsExactlySignedHeaders(t *testing.T) {
	hs := NewHeaderSet(map[string]string{
		"host":       "webservices.amazon.eg",
		"x-amz-date": "20260901T120000Z",
	})

	req, err := http.NewRequest(http.MethodPost, "https://webservices.amazon.eg/paapi5/getitems", nil)
	require.NoError(t, err)

	hs.Apply(req)
	assert.Equal(t, "webservices.amazon.eg", req.Host)
	assert.Equal(t, "20260901T120000Z", req.Header.Get("x-amz-date"))
}

func TestAuthorizationDeterministic(t *testing.T) {
	s := New("eu-west-1", "ProductAdvertisingAPI")
	creds := Credentials{AccessKey: "AKIDEXAMPLE", SecretKey: "secret"}
	hs := NewHeaderSet(map[string]string{
		"content-encoding": "amz-1.0",
		"content-type":     "application/json; charset=utf-8",
		"host":             "webservices.amazon.eg",
		"x-amz-date":       "20260901T120000Z",
		"x-amz-target":     "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.GetItems",
	})
	payload := []byte(`{"ItemIds":["B000TEST01"]}`)

	first := s.Authorization(creds, http.MethodPost, "/paapi5/getitems", hs, payload, "20260901T120000Z")
	second := s.Authorization(creds, http.MethodPost, "/paapi5/getitems", hs, payload, "20260901T120000Z")

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Credential=AKIDEXAMPLE/20260901/eu-west-1/ProductAdvertisingAPI/aws4_request")
	assert.Contains(t, first, "SignedHeaders=content-encoding;content-type;host;x-amz-date;x-amz-target")

	// Different payload, different signature
	third := s.Authorization(creds, http.MethodPost, "/paapi5/getitems", hs, []byte(`{}`), "20260901T120000Z")
	assert.NotEqual(t, first, third)
}
