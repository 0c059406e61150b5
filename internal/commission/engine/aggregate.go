package engine

import (
	"github.com/smallbiznis/salesops/internal/commission/domain"
)

// Entry is one calculated sale fed into the aggregator.
type Entry struct {
	Fact        domain.SaleFact
	Eligibility domain.Eligibility
	Breakdown   domain.CommissionBreakdown
}

// Aggregate sums a sequence of entries and credits periodBonus once to earned and
// potential. Pass zero when the DSR did not qualify for a tier.
//
// The bonus is applied on every call, so summaries of a partition only add up to
// the summary of the whole when the bonus is passed to at most one part. Aggregate
// the parts with zero and apply the bonus afterwards with WithBonus.
func Aggregate(entries []Entry, periodBonus domain.Money) domain.Summary {
	var out domain.Summary
	for _, e := range entries {
		out = out.Add(summarize(e))
	}
	return WithBonus(out, periodBonus)
}

// WithBonus credits an earned period bonus to s.
func WithBonus(s domain.Summary, bonus domain.Money) domain.Summary {
	bonus = nonNegative(bonus)
	s.Bonus += bonus
	s.Earned += bonus
	s.Potential += bonus
	return s
}

// WithPotentialBonus credits a bonus the DSR would reach once pending and unpaid
// sales become eligible. It raises potential only.
func WithPotentialBonus(s domain.Summary, bonus domain.Money) domain.Summary {
	s.Potential += nonNegative(bonus)
	return s
}

// AggregateByType splits the totals by product type. No period bonus is applied.
func AggregateByType(entries []Entry) map[domain.ProductType]domain.Summary {
	out := make(map[domain.ProductType]domain.Summary)
	for _, e := range entries {
		out[e.Fact.ProductType] = out[e.Fact.ProductType].Add(summarize(e))
	}
	return out
}

func summarize(e Entry) domain.Summary {
	s := domain.Summary{SalesCount: 1}
	if e.Eligibility.IsInvalid() {
		return s
	}

	amount := nonNegative(e.Breakdown.Total)
	s.Potential = amount
	switch e.Eligibility.State {
	case domain.Eligible:
		s.Earned = amount
	case domain.PendingApproval:
		s.Pending = amount
	}
	return s
}
