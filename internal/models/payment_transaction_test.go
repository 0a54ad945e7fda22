package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveStatus(t *testing.T) {
	now := time.Now()

	t.Run("Fresh Pending Stays Pending", func(t *testing.T) {
		tx := &PaymentTransaction{Status: TransactionStatusPending, CreatedAt: now.Add(-time.Hour)}
		assert.Equal(t, TransactionStatusPending, tx.EffectiveStatus(now))
	})

	t.Run("Stale Pending Reads As Expired", func(t *testing.T) {
		tx := &PaymentTransaction{Status: TransactionStatusPending, CreatedAt: now.Add(-25 * time.Hour)}
		assert.Equal(t, TransactionStatusExpired, tx.EffectiveStatus(now))
	})

	t.Run("Settlement Never Expires", func(t *testing.T) {
		tx := &PaymentTransaction{Status: TransactionStatusSettlement, CreatedAt: now.Add(-72 * time.Hour)}
		assert.Equal(t, TransactionStatusSettlement, tx.EffectiveStatus(now))
	})
}

func TestIsTerminalSuccess(t *testing.T) {
	assert.True(t, TransactionStatusSettlement.IsTerminalSuccess())
	assert.True(t, TransactionStatusCapture.IsTerminalSuccess())
	assert.False(t, TransactionStatusPending.IsTerminalSuccess())
	assert.False(t, TransactionStatusDeny.IsTerminalSuccess())
	assert.False(t, TransactionStatusExpired.IsTerminalSuccess())
}
