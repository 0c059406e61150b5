// Package domain holds the value types shared by the commission engine and its callers.
package domain

import "strings"

// Money is an amount in the currency's indivisible unit.
type Money = int64

type ProductType string

const (
	ProductFullSet             ProductType = "FS"
	ProductDecoderOnly         ProductType = "DO"
	ProductDigitalVirtualStock ProductType = "DVS"
)

type PackageSelection string

const (
	WithPackage PackageSelection = "with_package"
	NoPackage   PackageSelection = "no_package"
)

type PaymentStatus string

const (
	Paid   PaymentStatus = "paid"
	Unpaid PaymentStatus = "unpaid"
)

// SaleFact is the typed view of a single sale that the engine evaluates.
type SaleFact struct {
	ProductType      ProductType      `json:"product_type"`
	PackageSelection PackageSelection `json:"package_selection"`
	PackageCode      string           `json:"package_code,omitempty"`
	PaymentStatus    PaymentStatus    `json:"payment_status"`
	TLVerified       bool             `json:"tl_verified"`
	AdminApproved    bool             `json:"admin_approved"`
	StockLinkPresent bool             `json:"stock_link_present"`
}

// CommissionBreakdown is the per-sale commission value if and when it is earned.
type CommissionBreakdown struct {
	Upfront    Money `json:"upfront"`
	Activation Money `json:"activation"`
	Package    Money `json:"package"`
	Bonus      Money `json:"bonus"`
	Total      Money `json:"total"`
}

type EligibilityState string

const (
	Eligible        EligibilityState = "eligible"
	PendingApproval EligibilityState = "pending_approval"
	NotEligible     EligibilityState = "not_eligible"
)

const (
	ReasonUnpaid             = "unpaid"
	ReasonDVSRequiresPackage = "invalid: DVS requires package"
	ReasonUnknownProductType = "invalid: unknown product type"
	ReasonAwaitingStockLink  = "awaiting stock link"
)

type Eligibility struct {
	State  EligibilityState `json:"state"`
	Reason string           `json:"reason,omitempty"`
	// Invalid marks a sale rejected as contradictory input. It carries no
	// commission, not even potential.
	Invalid bool `json:"invalid,omitempty"`
}

// IsInvalid reports whether the sale was rejected as contradictory input.
func (e Eligibility) IsInvalid() bool {
	return e.Invalid
}

// Warnings carries non-fatal signals raised while calculating a sale.
type Warnings struct {
	PackageConfigGap   bool   `json:"package_config_gap"`
	MissingPackageCode string `json:"missing_package_code,omitempty"`
}

type Result struct {
	Eligibility Eligibility         `json:"eligibility"`
	Breakdown   CommissionBreakdown `json:"breakdown"`
	Warnings    Warnings            `json:"warnings"`
}

// NormalizePackageCode trims and upper-cases a package code for lookups.
func NormalizePackageCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Summary folds sale breakdowns into dashboard totals.
type Summary struct {
	SalesCount int   `json:"sales_count"`
	Earned     Money `json:"earned"`
	Pending    Money `json:"pending"`
	Potential  Money `json:"potential"`
	Bonus      Money `json:"bonus"`
}

// Add merges two summaries. Aggregating a partition and adding the parts equals
// aggregating the whole sequence.
func (s Summary) Add(other Summary) Summary {
	return Summary{
		SalesCount: s.SalesCount + other.SalesCount,
		Earned:     s.Earned + other.Earned,
		Pending:    s.Pending + other.Pending,
		Potential:  s.Potential + other.Potential,
		Bonus:      s.Bonus + other.Bonus,
	}
}

// MergeByType adds every per-type summary of other into dst.
func MergeByType(dst, other map[ProductType]Summary) map[ProductType]Summary {
	if dst == nil {
		dst = make(map[ProductType]Summary, len(other))
	}
	for productType, summary := range other {
		dst[productType] = dst[productType].Add(summary)
	}
	return dst
}
