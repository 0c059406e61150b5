package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultExperienceMonths is the tenure a DSR needs before experience-gated tiers apply.
const DefaultExperienceMonths = 3

type ProductRate struct {
	Upfront    Money `json:"upfront"`
	Activation Money `json:"activation"`
}

// PackageCommission resolves the commission paid for selling a package.
type PackageCommission interface {
	Resolve(code string) (Money, bool)
	Mode() string
}

const (
	PackageModeFlat    = "flat"
	PackageModePercent = "percent"
)

// FlatPackageCommission pays a fixed amount per package code.
type FlatPackageCommission map[string]Money

func (f FlatPackageCommission) Resolve(code string) (Money, bool) {
	amount, ok := f[NormalizePackageCode(code)]
	return amount, ok
}

func (f FlatPackageCommission) Mode() string { return PackageModeFlat }

// PercentPackageCommission pays a percentage of the package's monthly price.
type PercentPackageCommission struct {
	Percent decimal.Decimal
	Prices  map[string]Money
}

func (p PercentPackageCommission) Resolve(code string) (Money, bool) {
	price, ok := p.Prices[NormalizePackageCode(code)]
	if !ok {
		return 0, false
	}
	amount := decimal.NewFromInt(price).
		Mul(p.Percent).
		Div(decimal.NewFromInt(100)).
		Floor().
		IntPart()
	if amount < 0 {
		return 0, true
	}
	return amount, true
}

func (p PercentPackageCommission) Mode() string { return PackageModePercent }

type TierName string

// NoTier is returned when a sales count does not reach any tier.
const NoTier TierName = "none"

// BonusTier is one bracket of the period bonus table. A nil MaxSales is open ended.
type BonusTier struct {
	Name               TierName `json:"name"`
	MinSales           int      `json:"min_sales"`
	MaxSales           *int     `json:"max_sales,omitempty"`
	Bonus              Money    `json:"bonus"`
	RequiresExperience bool     `json:"requires_experience"`
}

// Contains reports whether count falls inside the tier range.
func (t BonusTier) Contains(count int) bool {
	if count < t.MinSales {
		return false
	}
	return t.MaxSales == nil || count <= *t.MaxSales
}

// RateCatalog is the rate configuration a calculation runs against. The engine never mutates it.
type RateCatalog struct {
	ProductRates     map[ProductType]ProductRate
	Packages         PackageCommission
	BonusTiers       []BonusTier
	ExperienceMonths int
	RequireStockLink bool
}

// ResolvePackageCommission returns the commission for a package code.
// Unknown codes resolve to zero with ok=false.
func (c RateCatalog) ResolvePackageCommission(code string) (Money, bool) {
	if c.Packages == nil || strings.TrimSpace(code) == "" {
		return 0, false
	}
	return c.Packages.Resolve(code)
}

// SortedTiers returns a copy of the tier table in ascending MinSales order.
func (c RateCatalog) SortedTiers() []BonusTier {
	return SortTiers(c.BonusTiers)
}

func SortTiers(tiers []BonusTier) []BonusTier {
	out := make([]BonusTier, len(tiers))
	copy(out, tiers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinSales < out[j].MinSales
	})
	return out
}

func (c RateCatalog) Validate() error {
	if len(c.ProductRates) == 0 {
		return fmt.Errorf("%w: product rates cannot be empty", ErrInvalidCatalog)
	}
	for productType, rate := range c.ProductRates {
		if strings.TrimSpace(string(productType)) == "" {
			return fmt.Errorf("%w: empty product type", ErrInvalidCatalog)
		}
		if rate.Upfront < 0 || rate.Activation < 0 {
			return fmt.Errorf("%w: negative rate for %s", ErrInvalidCatalog, productType)
		}
	}

	switch p := c.Packages.(type) {
	case nil:
	case FlatPackageCommission:
		for code, amount := range p {
			if amount < 0 {
				return fmt.Errorf("%w: negative package commission for %s", ErrInvalidCatalog, code)
			}
		}
	case PercentPackageCommission:
		if p.Percent.IsNegative() || p.Percent.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: package percent must be between 0 and 100", ErrInvalidCatalog)
		}
		for code, price := range p.Prices {
			if price < 0 {
				return fmt.Errorf("%w: negative package price for %s", ErrInvalidCatalog, code)
			}
		}
	}

	if c.ExperienceMonths < 0 {
		return fmt.Errorf("%w: experience months cannot be negative", ErrInvalidCatalog)
	}

	seen := make(map[TierName]struct{}, len(c.BonusTiers))
	for _, tier := range c.BonusTiers {
		name := TierName(strings.TrimSpace(string(tier.Name)))
		if name == "" || name == NoTier {
			return fmt.Errorf("%w: invalid tier name %q", ErrInvalidCatalog, tier.Name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate tier %s", ErrInvalidCatalog, name)
		}
		seen[name] = struct{}{}
		if tier.MinSales < 0 {
			return fmt.Errorf("%w: tier %s min sales cannot be negative", ErrInvalidCatalog, name)
		}
		if tier.MaxSales != nil && *tier.MaxSales < tier.MinSales {
			return fmt.Errorf("%w: tier %s max sales below min sales", ErrInvalidCatalog, name)
		}
		if tier.Bonus < 0 {
			return fmt.Errorf("%w: tier %s bonus cannot be negative", ErrInvalidCatalog, name)
		}
	}
	return nil
}

// OverlappingTiers lists pairs of tiers whose ranges intersect. Overlap is not rejected:
// resolution picks the first match in ascending MinSales order.
func (c RateCatalog) OverlappingTiers() [][2]TierName {
	tiers := c.SortedTiers()
	var out [][2]TierName
	for i := 0; i < len(tiers); i++ {
		for j := i + 1; j < len(tiers); j++ {
			if tiers[i].MaxSales == nil || *tiers[i].MaxSales >= tiers[j].MinSales {
				out = append(out, [2]TierName{tiers[i].Name, tiers[j].Name})
			}
		}
	}
	return out
}

func IntPtr(v int) *int { return &v }
