package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salesops/internal/commission/domain"
)

// File is the on-disk shape of the rate catalog.
type File struct {
	ExperienceMonths int                    `mapstructure:"experience_months"`
	RequireStockLink bool                   `mapstructure:"require_stock_link"`
	Products         map[string]ProductFile `mapstructure:"products"`
	Packages         PackagesFile           `mapstructure:"packages"`
	BonusTiers       []TierFile             `mapstructure:"bonus_tiers"`
}

type ProductFile struct {
	Upfront    int64 `mapstructure:"upfront"`
	Activation int64 `mapstructure:"activation"`
}

// PackagesFile holds package amounts keyed by code. In flat mode the amount is the
// commission itself; in percent mode it is the monthly package price.
type PackagesFile struct {
	Mode    string           `mapstructure:"mode"`
	Percent string           `mapstructure:"percent"`
	Amounts map[string]int64 `mapstructure:"amounts"`
}

type TierFile struct {
	Name               string `mapstructure:"name"`
	MinSales           int    `mapstructure:"min_sales"`
	MaxSales           *int   `mapstructure:"max_sales"`
	Bonus              int64  `mapstructure:"bonus"`
	RequiresExperience bool   `mapstructure:"requires_experience"`
}

var knownProducts = map[domain.ProductType]struct{}{
	domain.ProductFullSet:             {},
	domain.ProductDecoderOnly:         {},
	domain.ProductDigitalVirtualStock: {},
}

// RateCatalog converts the file form into a validated domain catalog.
func (f File) RateCatalog() (domain.RateCatalog, error) {
	out := domain.RateCatalog{
		ProductRates:     make(map[domain.ProductType]domain.ProductRate, len(f.Products)),
		ExperienceMonths: f.ExperienceMonths,
		RequireStockLink: f.RequireStockLink,
	}

	for code, rate := range f.Products {
		productType := domain.ProductType(strings.ToUpper(strings.TrimSpace(code)))
		if _, ok := knownProducts[productType]; !ok {
			return domain.RateCatalog{}, fmt.Errorf("%w: unknown product %q", domain.ErrInvalidCatalog, code)
		}
		out.ProductRates[productType] = domain.ProductRate{Upfront: rate.Upfront, Activation: rate.Activation}
	}

	amounts := make(map[string]domain.Money, len(f.Packages.Amounts))
	for code, amount := range f.Packages.Amounts {
		amounts[domain.NormalizePackageCode(code)] = amount
	}

	switch strings.ToLower(strings.TrimSpace(f.Packages.Mode)) {
	case "", domain.PackageModeFlat:
		out.Packages = domain.FlatPackageCommission(amounts)
	case domain.PackageModePercent:
		percent, err := decimal.NewFromString(strings.TrimSpace(f.Packages.Percent))
		if err != nil {
			return domain.RateCatalog{}, fmt.Errorf("%w: package percent %q", domain.ErrInvalidCatalog, f.Packages.Percent)
		}
		out.Packages = domain.PercentPackageCommission{Percent: percent, Prices: amounts}
	default:
		return domain.RateCatalog{}, fmt.Errorf("%w: unknown package mode %q", domain.ErrInvalidCatalog, f.Packages.Mode)
	}

	out.BonusTiers = make([]domain.BonusTier, 0, len(f.BonusTiers))
	for _, tier := range f.BonusTiers {
		out.BonusTiers = append(out.BonusTiers, domain.BonusTier{
			Name:               domain.TierName(strings.TrimSpace(tier.Name)),
			MinSales:           tier.MinSales,
			MaxSales:           tier.MaxSales,
			Bonus:              tier.Bonus,
			RequiresExperience: tier.RequiresExperience,
		})
	}

	if err := out.Validate(); err != nil {
		return domain.RateCatalog{}, err
	}
	return out, nil
}
