package service

import (
	"time"

	"github.com/shopspring/decimal"

	"banking-ledger/internal/domain"
)

// Withdrawal fee policy constants. Rates are percentages divided by 100, so
// 0.015% becomes 0.00015.
var (
	individualFreeAllowance = decimal.NewFromInt(1000)
	individualFeeRate       = decimal.RequireFromString("0.00015") // 0.015%

	businessFreeTierCap    = decimal.NewFromInt(5000)
	businessFeeRate        = decimal.RequireFromString("0.00025") // 0.025%
	businessReducedCutoff  = decimal.NewFromInt(50000)
	businessReducedFeeRate = decimal.RequireFromString("0.00015") // 0.015%
)

// withdrawalFee computes the fee for a single withdrawal.
//
// Individual accounts withdraw free on Fridays; on other days the first 1000
// of each single withdrawal carries no fee and the remainder is charged at
// 0.015%. The allowance is per transaction, not cumulative over the month.
//
// Business accounts are charged 0.025% of the full amount unless their
// withdrawals earlier in the calendar month already exceed 5000, in which
// case the fee is waived. If the prior monthly total plus this amount crosses
// 50000 the fee is recomputed at 0.015% of the amount, replacing either
// branch above. Note the asymmetry: the waiver looks at the prior total only,
// the reduced rate at prior total plus the current amount.
//
// monthlyTotal is the sum of withdrawal principal (fees excluded) for the
// calendar month of now, before this withdrawal; it is only consulted for
// Business accounts. Unknown account types pay no fee.
func withdrawalFee(accountType domain.AccountType, amount, monthlyTotal decimal.Decimal, now time.Time) decimal.Decimal {
	switch accountType {
	case domain.AccountTypeIndividual:
		if now.Weekday() == time.Friday {
			return decimal.Zero
		}
		charged := amount.Sub(individualFreeAllowance)
		if charged.IsNegative() {
			return decimal.Zero
		}
		return charged.Mul(individualFeeRate)

	case domain.AccountTypeBusiness:
		fee := decimal.Zero
		if !monthlyTotal.GreaterThan(businessFreeTierCap) {
			fee = amount.Mul(businessFeeRate)
		}
		if monthlyTotal.Add(amount).GreaterThan(businessReducedCutoff) {
			fee = amount.Mul(businessReducedFeeRate)
		}
		return fee

	default:
		return decimal.Zero
	}
}
