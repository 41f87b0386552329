package payroll

import (
	"github.com/shopspring/decimal"
)

// Computation holds the inputs and derived figures of one salary slip.
type Computation struct {
	BasicSalary      decimal.Decimal
	PendingBalance   decimal.Decimal
	Advance          decimal.Decimal
	LeaveDeduction   decimal.Decimal
	TotalSalary      decimal.Decimal
	NetSalary        decimal.Decimal
	BalanceToReceive decimal.Decimal
}

// Compute derives the slip figures:
//
//	total   = basic - leave
//	net     = total - advance
//	balance = net + pending
//
// Inputs are not range checked; negative results are reported as they are.
func Compute(basicSalary, pendingBalance, advance, leaveDeduction float64) Computation {
	return computeDecimal(
		decimal.NewFromFloat(basicSalary),
		decimal.NewFromFloat(pendingBalance),
		decimal.NewFromFloat(advance),
		decimal.NewFromFloat(leaveDeduction),
	)
}

func computeDecimal(basic, pending, advance, leave decimal.Decimal) Computation {
	total := basic.Sub(leave)
	net := total.Sub(advance)
	return Computation{
		BasicSalary:      basic,
		PendingBalance:   pending,
		Advance:          advance,
		LeaveDeduction:   leave,
		TotalSalary:      total,
		NetSalary:        net,
		BalanceToReceive: net.Add(pending),
	}
}

// formatAmount renders a figure the way it appears on the slip.
func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
