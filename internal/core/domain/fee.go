package domain

// Fee rules. All amounts are smallest-unit integers; the fee is
// retained by the system on send-money (credited to nobody) and paid
// to the agent on cash-out.
const (
	sendMoneyFlatFee   int64 = 5
	sendMoneyFreeLimit int64 = 100
)

// MaxTransactionAmount bounds a single operation. Amounts above it are
// rejected before any arithmetic, keeping the fee multiplication and
// the amount+fee sums far from int64 overflow.
const MaxTransactionAmount int64 = 1_000_000_000_000

// SendMoneyFee is a flat 5 units once the amount exceeds 100, else free.
func SendMoneyFee(amount int64) int64 {
	if amount > sendMoneyFreeLimit {
		return sendMoneyFlatFee
	}
	return 0
}

// CashOutFee is 1.5% of the amount, rounded half-up in integer
// arithmetic. Computed once at submission and re-applied unchanged at
// approval.
func CashOutFee(amount int64) int64 {
	return (amount*15 + 500) / 1000
}

// FeeFor returns the submission-time fee for a deferred request kind.
// Cash-in is free: the agent supplies the funds.
func FeeFor(kind TransactionKind, amount int64) int64 {
	if kind == KindCashOut {
		return CashOutFee(amount)
	}
	return 0
}
