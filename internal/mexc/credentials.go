package mexc

// minCredentialLen is the shortest plausible MEXC API key or secret.
const minCredentialLen = 10

// ValidateCredentials checks the shape of an API key pair before any network
// call is made. It does not verify the pair against the exchange, only that
// both values are present and long enough to possibly be real.
func ValidateCredentials(apiKey, secretKey string) bool {
	return len(apiKey) >= minCredentialLen && len(secretKey) >= minCredentialLen
}
