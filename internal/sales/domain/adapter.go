package domain

import (
	"strings"
	"time"

	commissiondomain "github.com/smallbiznis/salesops/internal/commission/domain"
)

var saleTypes = map[string]commissiondomain.ProductType{
	"fs":                    commissiondomain.ProductFullSet,
	"full_set":              commissiondomain.ProductFullSet,
	"fullset":               commissiondomain.ProductFullSet,
	"do":                    commissiondomain.ProductDecoderOnly,
	"decoder_only":          commissiondomain.ProductDecoderOnly,
	"decoder":               commissiondomain.ProductDecoderOnly,
	"dvs":                   commissiondomain.ProductDigitalVirtualStock,
	"digital_virtual_stock": commissiondomain.ProductDigitalVirtualStock,
	"virtual":               commissiondomain.ProductDigitalVirtualStock,
}

var packageOptions = map[string]commissiondomain.PackageSelection{
	"with_package": commissiondomain.WithPackage,
	"with":         commissiondomain.WithPackage,
	"package":      commissiondomain.WithPackage,
	"yes":          commissiondomain.WithPackage,
	"y":            commissiondomain.WithPackage,
	"true":         commissiondomain.WithPackage,
	"no_package":   commissiondomain.NoPackage,
	"without":      commissiondomain.NoPackage,
	"none":         commissiondomain.NoPackage,
	"no":           commissiondomain.NoPackage,
	"n":            commissiondomain.NoPackage,
	"false":        commissiondomain.NoPackage,
}

// ToSaleFact maps a stored sale onto the typed fact the commission engine evaluates.
func ToSaleFact(s Sale) commissiondomain.SaleFact {
	selection := ParsePackageOption(s.PackageOption, s.PackageCode)
	fact := commissiondomain.SaleFact{
		ProductType:      ParseSaleType(s.SaleType),
		PackageSelection: selection,
		PaymentStatus:    ParsePaymentStatus(s.PaymentStatus),
		TLVerified:       s.TLVerified,
		AdminApproved:    s.AdminApproved,
		StockLinkPresent: s.StockID != nil && *s.StockID != 0,
	}
	if selection == commissiondomain.WithPackage {
		fact.PackageCode = commissiondomain.NormalizePackageCode(s.PackageCode)
	}
	return fact
}

// ParseSaleType accepts codes and spelled out names in any case. Unrecognised
// values pass through upper-cased and are rejected by the engine.
func ParseSaleType(raw string) commissiondomain.ProductType {
	if pt, ok := saleTypes[normalizeToken(raw)]; ok {
		return pt
	}
	return commissiondomain.ProductType(strings.ToUpper(strings.TrimSpace(raw)))
}

// ParsePackageOption falls back to the presence of a package code when the
// option column is empty or unrecognised.
func ParsePackageOption(raw, code string) commissiondomain.PackageSelection {
	if selection, ok := packageOptions[normalizeToken(raw)]; ok {
		return selection
	}
	if strings.TrimSpace(code) != "" {
		return commissiondomain.WithPackage
	}
	return commissiondomain.NoPackage
}

// ParsePaymentStatus treats anything other than paid as unpaid.
func ParsePaymentStatus(raw string) commissiondomain.PaymentStatus {
	switch normalizeToken(raw) {
	case "paid", "complete", "completed":
		return commissiondomain.Paid
	default:
		return commissiondomain.Unpaid
	}
}

func normalizeToken(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(value)
}

// TenureMonths counts completed calendar months between joinedAt and asOf.
func TenureMonths(joinedAt, asOf time.Time) int {
	joinedAt = joinedAt.UTC()
	asOf = asOf.UTC()
	if !asOf.After(joinedAt) {
		return 0
	}
	months := (asOf.Year()-joinedAt.Year())*12 + int(asOf.Month()) - int(joinedAt.Month())
	if asOf.Day() < joinedAt.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
