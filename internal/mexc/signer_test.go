package mexc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"
)

func frozenClock(t *testing.T, ms int64) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return time.UnixMilli(ms) }
	t.Cleanup(func() { timeNow = orig })
}

func hmacHex(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestParamsEncodePreservesInsertionOrder(t *testing.T) {
	params := NewParams().
		Set("symbol", "BTC_USDT").
		Set("page_size", "20").
		Set("api_key", "abc")

	got := params.Encode()
	want := "symbol=BTC_USDT&page_size=20&api_key=abc"
	if got != want {
		t.Fatalf("Encode() = %q, want %q", got, want)
	}
}

func TestParamsSetOverwritesWithoutReordering(t *testing.T) {
	params := NewParams().
		Set("a", "1").
		Set("b", "2").
		Set("a", "3")

	got := params.Encode()
	want := "a=3&b=2"
	if got != want {
		t.Fatalf("Encode() = %q, want %q", got, want)
	}
}

func TestParamsEncodeEscapesValues(t *testing.T) {
	params := NewParams().Set("note", "a b&c")

	got := params.Encode()
	want := "note=a+b%26c"
	if got != want {
		t.Fatalf("Encode() = %q, want %q", got, want)
	}
}

func TestSignProducesDeterministicSignature(t *testing.T) {
	frozenClock(t, 1700000000000)

	const secret = "test-secret-key"
	params := NewParams().
		Set("symbol", "BTC_USDT").
		Set("leverage", "10")

	signed := Sign(secret, params)

	canonical := "symbol=BTC_USDT&leverage=10&timestamp=1700000000000"
	want := canonical + "&signature=" + hmacHex(secret, canonical)
	if signed != want {
		t.Fatalf("Sign() = %q, want %q", signed, want)
	}
}

func TestSignWithNilParams(t *testing.T) {
	frozenClock(t, 1700000000000)

	signed := Sign("secret-0123456789", nil)

	canonical := "timestamp=1700000000000"
	want := canonical + "&signature=" + hmacHex("secret-0123456789", canonical)
	if signed != want {
		t.Fatalf("Sign(nil) = %q, want %q", signed, want)
	}
}

func TestSignedURL(t *testing.T) {
	frozenClock(t, 1700000000000)

	got := SignedURL("https://contract.example.com", "/api/v1/private/account/assets", "s3cret-0123456789", NewParams())
	if !strings.HasPrefix(got, "https://contract.example.com/api/v1/private/account/assets?timestamp=1700000000000&signature=") {
		t.Fatalf("SignedURL() = %q, unexpected shape", got)
	}
}
