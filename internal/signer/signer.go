package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	algorithm         = "AWS4-HMAC-SHA256"
	terminationString = "aws4_request"
)

// Credentials access key pair for the catalog API
type Credentials struct {
	AccessKey string
	SecretKey string
}

// header one name/value pair, name always lowercase
type header struct {
	name  string
	value string
}

// HeaderSet is the single source of truth for the signed header set.
// The canonical block, the signed-header name list and the headers applied
// to the outbound request are all derived from the same sorted slice, so
// the signature always covers exactly the headers that are sent.
type HeaderSet struct {
	headers []header
}

// NewHeaderSet builds a sorted header set from name/value pairs
func NewHeaderSet(pairs map[string]string) HeaderSet {
	hs := HeaderSet{headers: make([]header, 0, len(pairs))}
	for name, value := range pairs {
		hs.headers = append(hs.headers, header{
			name:  strings.ToLower(strings.TrimSpace(name)),
			value: strings.TrimSpace(value),
		})
	}
	sort.Slice(hs.headers, func(i, j int) bool {
		return hs.headers[i].name < hs.headers[j].name
	})
	return hs
}

// CanonicalBlock returns the name:value\n-joined canonical header block
func (h HeaderSet) CanonicalBlock() string {
	var b strings.Builder
	for _, hdr := range h.headers {
		b.WriteString(hdr.name)
		b.WriteByte(':')
		b.WriteString(hdr.value)
		b.WriteByte('\n')
	}
	return b.String()
}

// NameList returns the ;-joined signed header name list
func (h HeaderSet) NameList() string {
	names := make([]string, len(h.headers))
	for i, hdr := range h.headers {
		names[i] = hdr.name
	}
	return strings.Join(names, ";")
}

// Apply sets exactly the signed headers on the outbound request
func (h HeaderSet) Apply(req *http.Request) {
	for _, hdr := range h.headers {
		if hdr.name == "host" {
			req.Host = hdr.value
			continue
		}
		req.Header.Set(hdr.name, hdr.value)
	}
}

// Signer computes region/service-scoped request signatures
type Signer struct {
	region  string
	service string
}

// New creates a signer for a region and service
func New(region, service string) *Signer {
	return &Signer{region: region, service: service}
}

// HashHex returns the lowercase hex SHA-256 digest of payload
func HashHex(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, message string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

// SigningKey derives the signature key via the four chained HMAC steps
func (s *Signer) SigningKey(secretKey, dateStamp string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), dateStamp)
	kRegion := hmacSHA256(kDate, s.region)
	kService := hmacSHA256(kRegion, s.service)
	return hmacSHA256(kService, terminationString)
}

// CredentialScope returns the date/region/service scope string
func (s *Signer) CredentialScope(dateStamp string) string {
	return fmt.Sprintf("%s/%s/%s/%s", dateStamp, s.region, s.service, terminationString)
}

// Authorization signs a request and returns the Authorization header value.
// amzDate is the full x-amz-date timestamp (YYYYMMDDTHHMMSSZ); its first
// eight characters form the date stamp used for key derivation.
func (s *Signer) Authorization(creds Credentials, method, path string, headers HeaderSet, payload []byte, amzDate string) string {
	dateStamp := amzDate[:8]

	canonicalRequest := strings.Join([]string{
		method,
		path,
		"", // query string
		headers.CanonicalBlock(),
		headers.NameList(),
		HashHex(payload),
	}, "\n")

	scope := s.CredentialScope(dateStamp)
	stringToSign := strings.Join([]string{
		algorithm,
		amzDate,
		scope,
		HashHex([]byte(canonicalRequest)),
	}, "\n")

	signature := hex.EncodeToString(hmacSHA256(s.SigningKey(creds.SecretKey, dateStamp), stringToSign))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm, creds.AccessKey, scope, headers.NameList(), signature)
}
