package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendMoneyFee(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   int64
	}{
		{"small amount is free", 50, 0},
		{"exactly 100 is free", 100, 0},
		{"just above the limit", 101, 5},
		{"large amount", 100000, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SendMoneyFee(tt.amount))
		})
	}
}

func TestCashOutFee(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   int64
	}{
		{"1000 at 1.5 percent", 1000, 15},
		{"1.5 rounds half up to 2", 100, 2},
		{"0.45 rounds down to 0", 30, 0},
		{"0.6 rounds up to 1", 40, 1},
		{"large amount", 200000, 3000},
		{"at the operation cap", MaxTransactionAmount, 15_000_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CashOutFee(tt.amount))
		})
	}
}

func TestFeeFor(t *testing.T) {
	assert.Equal(t, int64(15), FeeFor(KindCashOut, 1000))
	assert.Zero(t, FeeFor(KindCashIn, 1000), "cash-in is free")
	assert.Zero(t, FeeFor(KindSendMoney, 1000), "send-money fee is not a submission fee")
}

func TestBonusFor(t *testing.T) {
	assert.Equal(t, UserBonus, BonusFor(RoleUser))
	assert.Equal(t, AgentBonus, BonusFor(RoleAgent))
	assert.Zero(t, BonusFor(RoleAdmin))
}
