package mexc

import (
	"strings"
	"testing"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name      string
		apiKey    string
		secretKey string
		want      bool
	}{
		{"both valid", strings.Repeat("x", 10), strings.Repeat("x", 10), true},
		{"long pair", strings.Repeat("k", 32), strings.Repeat("s", 64), true},
		{"empty key", "", strings.Repeat("x", 20), false},
		{"empty secret", strings.Repeat("x", 20), "", false},
		{"short key", "short", strings.Repeat("x", 20), false},
		{"short secret", strings.Repeat("x", 20), "tiny", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCredentials(tt.apiKey, tt.secretKey); got != tt.want {
				t.Errorf("ValidateCredentials(%q, %q) = %v, want %v", tt.apiKey, tt.secretKey, got, tt.want)
			}
		})
	}
}
