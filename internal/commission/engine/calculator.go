// Package engine implements commission calculation, bonus tier resolution and
// summary aggregation. Every function is pure and safe for concurrent use.
package engine

import (
	"github.com/smallbiznis/salesops/internal/commission/domain"
)

// Calculate evaluates one sale against a rate catalog. Contradictory input returns an
// error wrapping domain.ErrInvalidInput together with a zero breakdown.
func Calculate(sale domain.SaleFact, rates domain.RateCatalog) (domain.Result, error) {
	if sale.ProductType == domain.ProductDigitalVirtualStock && sale.PackageSelection != domain.WithPackage {
		return invalid(domain.ReasonDVSRequiresPackage), domain.ErrDVSRequiresPackage
	}

	rate, ok := rates.ProductRates[sale.ProductType]
	if !ok {
		return invalid(domain.ReasonUnknownProductType), domain.ErrUnknownProductType
	}

	result := domain.Result{Eligibility: eligibility(sale, rates)}

	// Upfront is owed once the unit is handed over, paid or not.
	result.Breakdown.Upfront = rate.Upfront

	if sale.PaymentStatus == domain.Paid {
		result.Breakdown.Activation = rate.Activation

		if sale.PackageSelection == domain.WithPackage {
			amount, found := rates.ResolvePackageCommission(sale.PackageCode)
			if !found {
				result.Warnings.PackageConfigGap = true
				result.Warnings.MissingPackageCode = domain.NormalizePackageCode(sale.PackageCode)
			}
			result.Breakdown.Package = amount
		}
	}

	result.Breakdown.Total = total(result.Breakdown)
	return result, nil
}

func eligibility(sale domain.SaleFact, rates domain.RateCatalog) domain.Eligibility {
	if sale.PaymentStatus != domain.Paid {
		return domain.Eligibility{State: domain.NotEligible, Reason: domain.ReasonUnpaid}
	}
	if !sale.TLVerified || !sale.AdminApproved {
		return domain.Eligibility{State: domain.PendingApproval}
	}
	if rates.RequireStockLink && sale.ProductType != domain.ProductDigitalVirtualStock && !sale.StockLinkPresent {
		return domain.Eligibility{State: domain.PendingApproval, Reason: domain.ReasonAwaitingStockLink}
	}
	return domain.Eligibility{State: domain.Eligible}
}

func invalid(reason string) domain.Result {
	return domain.Result{
		Eligibility: domain.Eligibility{State: domain.NotEligible, Reason: reason, Invalid: true},
	}
}

func total(b domain.CommissionBreakdown) domain.Money {
	return nonNegative(b.Upfront) + nonNegative(b.Activation) + nonNegative(b.Package)
}

func nonNegative(v domain.Money) domain.Money {
	if v < 0 {
		return 0
	}
	return v
}
