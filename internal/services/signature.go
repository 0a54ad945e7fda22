package services

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
)

// SignatureVerifier checks gateway notification signatures. Verification
// is skipped entirely when no server key is configured (sandbox and
// local development run unkeyed).
type SignatureVerifier struct {
	serverKey string
}

// NewSignatureVerifier creates a new SignatureVerifier
func NewSignatureVerifier(serverKey string) *SignatureVerifier {
	return &SignatureVerifier{serverKey: serverKey}
}

// Enabled reports whether verification is active
func (v *SignatureVerifier) Enabled() bool {
	return v.serverKey != ""
}

// Verify checks the gateway signature for a notification:
// SHA512(order_id + status_code + gross_amount + server_key), hex encoded.
// gross_amount uses the gateway's two-decimal string form.
func (v *SignatureVerifier) Verify(orderID, statusCode string, grossAmount float64, signature string) bool {
	if !v.Enabled() {
		return true
	}
	if signature == "" {
		return false
	}

	payload := orderID + statusCode + fmt.Sprintf("%.2f", grossAmount) + v.serverKey
	sum := sha512.Sum512([]byte(payload))
	expected := hex.EncodeToString(sum[:])
	return strings.EqualFold(expected, signature)
}
