package engine

import (
	"github.com/smallbiznis/salesops/internal/commission/domain"
)

// ResolveTier picks the bonus tier for a period sales count. Tiers are scanned in
// ascending MinSales order and the first containing range wins, so overlapping
// tables resolve to the lower tier. An experience-gated match with insufficient
// tenure falls back to the highest ungated tier whose MinSales the count reaches.
func ResolveTier(salesCount, tenureMonths int, tiers []domain.BonusTier, experienceMonths int) domain.TierName {
	sorted := domain.SortTiers(tiers)

	for _, tier := range sorted {
		if !tier.Contains(salesCount) {
			continue
		}
		if !tier.RequiresExperience || tenureMonths >= experienceMonths {
			return tier.Name
		}
		return fallbackTier(salesCount, sorted)
	}
	return domain.NoTier
}

func fallbackTier(salesCount int, sorted []domain.BonusTier) domain.TierName {
	for i := len(sorted) - 1; i >= 0; i-- {
		tier := sorted[i]
		if tier.RequiresExperience || tier.MinSales > salesCount {
			continue
		}
		return tier.Name
	}
	return domain.NoTier
}

// ResolveBonus looks up the bonus for an already resolved tier. The sales count is
// accepted for call-site symmetry with ResolveTier; tenure is never re-evaluated here.
func ResolveBonus(tier domain.TierName, _ int, tiers []domain.BonusTier) domain.Money {
	if tier == domain.NoTier || tier == "" {
		return 0
	}
	for _, t := range tiers {
		if t.Name == tier {
			return nonNegative(t.Bonus)
		}
	}
	return 0
}
