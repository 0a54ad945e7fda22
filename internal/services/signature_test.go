package services

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func gatewaySignature(orderID, statusCode string, grossAmount float64, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + fmt.Sprintf("%.2f", grossAmount) + serverKey))
	return hex.EncodeToString(sum[:])
}

func TestSignatureVerify(t *testing.T) {
	t.Run("Unkeyed Verifier Accepts Everything", func(t *testing.T) {
		v := NewSignatureVerifier("")
		assert.False(t, v.Enabled())
		assert.True(t, v.Verify("ORDER-1", "200", 250000, ""))
		assert.True(t, v.Verify("ORDER-1", "200", 250000, "garbage"))
	})

	t.Run("Keyed Verifier Rejects Empty Signature", func(t *testing.T) {
		v := NewSignatureVerifier("secret-key")
		assert.True(t, v.Enabled())
		assert.False(t, v.Verify("ORDER-1", "200", 250000, ""))
	})

	t.Run("Valid Signature", func(t *testing.T) {
		v := NewSignatureVerifier("secret-key")
		sig := gatewaySignature("ORDER-1", "200", 250000, "secret-key")
		assert.True(t, v.Verify("ORDER-1", "200", 250000, sig))
	})

	t.Run("Hex Comparison Is Case Insensitive", func(t *testing.T) {
		v := NewSignatureVerifier("secret-key")
		sig := strings.ToUpper(gatewaySignature("ORDER-1", "200", 250000, "secret-key"))
		assert.True(t, v.Verify("ORDER-1", "200", 250000, sig))
	})

	t.Run("Tampered Amount Fails", func(t *testing.T) {
		v := NewSignatureVerifier("secret-key")
		sig := gatewaySignature("ORDER-1", "200", 250000, "secret-key")
		assert.False(t, v.Verify("ORDER-1", "200", 1, sig))
	})

	t.Run("Wrong Key Fails", func(t *testing.T) {
		v := NewSignatureVerifier("secret-key")
		sig := gatewaySignature("ORDER-1", "200", 250000, "other-key")
		assert.False(t, v.Verify("ORDER-1", "200", 250000, sig))
	})
}
