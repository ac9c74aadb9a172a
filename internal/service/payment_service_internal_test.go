package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTransactionID_DoesNotWrap(t *testing.T) {
	prev := transactionSeq.Load()
	t.Cleanup(func() { transactionSeq.Store(prev) })

	now := time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC)
	transactionSeq.Store(999_999)

	first := newTransactionID(now)
	second := newTransactionID(now)

	assert.Equal(t, "TXN20260331100000-1000000", first)
	assert.Equal(t, "TXN20260331100000-1000001", second)
	assert.NotEqual(t, first, second)
}

func TestMaskCardNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4111 1111 1111 1234", "************1234"},
		{"4111-1111-1111-1234", "************1234"},
		{"1234", "1234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maskCardNumber(tt.in))
	}
}
