package mexc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// timeNow is swapped out by tests to get reproducible signatures.
var timeNow = time.Now

// Params is an ordered set of query parameters. The exchange signs the raw
// query string, so parameter order matters: url.Values sorts keys on Encode
// and would produce a different canonical string than the one sent.
type Params struct {
	keys   []string
	values map[string]string
}

// NewParams returns an empty ordered parameter set
func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// Set adds or replaces a parameter. First insertion fixes its position.
func (p *Params) Set(key, value string) *Params {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// Encode serializes the parameters in insertion order as a URL-encoded
// query string
func (p *Params) Encode() string {
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[k]))
	}
	return b.String()
}

// Sign appends a millisecond timestamp to the parameter set, computes the
// HMAC-SHA256 of the canonical query string under secretKey and returns the
// final query string with the hex signature appended.
func Sign(secretKey string, params *Params) string {
	if params == nil {
		params = NewParams()
	}
	params.Set("timestamp", strconv.FormatInt(timeNow().UnixMilli(), 10))

	query := params.Encode()
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(query))
	signature := hex.EncodeToString(mac.Sum(nil))

	return query + "&signature=" + signature
}

// SignedURL builds the full request URL for an endpoint with a signed query
func SignedURL(baseURL, endpoint, secretKey string, params *Params) string {
	return baseURL + endpoint + "?" + Sign(secretKey, params)
}
