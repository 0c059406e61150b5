package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCatalog() RateCatalog {
	return RateCatalog{
		ProductRates: map[ProductType]ProductRate{
			ProductFullSet:     {Upfront: 2000, Activation: 500},
			ProductDecoderOnly: {Upfront: 1500, Activation: 500},
		},
		Packages: FlatPackageCommission{"COMPACT": 1500},
		BonusTiers: []BonusTier{
			{Name: "Bronze", MinSales: 0, MaxSales: IntPtr(9)},
			{Name: "Silver", MinSales: 10, MaxSales: IntPtr(44), Bonus: 5000},
			{Name: "Gold", MinSales: 45, Bonus: 15000, RequiresExperience: true},
		},
		ExperienceMonths: DefaultExperienceMonths,
	}
}

func TestRateCatalogValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *RateCatalog)
		ok     bool
	}{
		{name: "valid", mutate: func(c *RateCatalog) {}, ok: true},
		{name: "no product rates", mutate: func(c *RateCatalog) { c.ProductRates = nil }},
		{name: "negative upfront", mutate: func(c *RateCatalog) {
			c.ProductRates[ProductFullSet] = ProductRate{Upfront: -1}
		}},
		{name: "negative package", mutate: func(c *RateCatalog) {
			c.Packages = FlatPackageCommission{"COMPACT": -10}
		}},
		{name: "percent above hundred", mutate: func(c *RateCatalog) {
			c.Packages = PercentPackageCommission{Percent: decimal.NewFromInt(101)}
		}},
		{name: "duplicate tier", mutate: func(c *RateCatalog) {
			c.BonusTiers = append(c.BonusTiers, BonusTier{Name: "Silver", MinSales: 100})
		}},
		{name: "reserved tier name", mutate: func(c *RateCatalog) {
			c.BonusTiers = append(c.BonusTiers, BonusTier{Name: NoTier, MinSales: 100})
		}},
		{name: "max below min", mutate: func(c *RateCatalog) {
			c.BonusTiers[1].MaxSales = IntPtr(5)
		}},
		{name: "negative experience", mutate: func(c *RateCatalog) { c.ExperienceMonths = -1 }},
		{name: "nil packages allowed", mutate: func(c *RateCatalog) { c.Packages = nil }, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCatalog()
			tt.mutate(&c)
			err := c.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestOverlappingTiers(t *testing.T) {
	c := validCatalog()
	assert.Empty(t, c.OverlappingTiers())

	c.BonusTiers = append(c.BonusTiers, BonusTier{Name: "Promo", MinSales: 40, MaxSales: IntPtr(50)})
	assert.Equal(t, [][2]TierName{{"Silver", "Promo"}, {"Promo", "Gold"}}, c.OverlappingTiers())
}

func TestResolvePackageCommission(t *testing.T) {
	c := validCatalog()

	amount, ok := c.ResolvePackageCommission(" compact ")
	assert.True(t, ok)
	assert.Equal(t, Money(1500), amount)

	amount, ok = c.ResolvePackageCommission("")
	assert.False(t, ok)
	assert.Zero(t, amount)

	c.Packages = nil
	_, ok = c.ResolvePackageCommission("COMPACT")
	assert.False(t, ok)
}

func TestPercentPackageCommissionFloors(t *testing.T) {
	p := PercentPackageCommission{
		Percent: decimal.RequireFromString("33.3"),
		Prices:  map[string]Money{"PREMIUM": 2999},
	}
	amount, ok := p.Resolve("premium")
	require.True(t, ok)
	// 2999 * 33.3 / 100 = 998.667
	assert.Equal(t, Money(998), amount)

	_, ok = p.Resolve("ACCESS")
	assert.False(t, ok)
}

func TestEligibilityIsInvalid(t *testing.T) {
	assert.True(t, Eligibility{State: NotEligible, Reason: ReasonDVSRequiresPackage, Invalid: true}.IsInvalid())
	assert.True(t, Eligibility{State: NotEligible, Invalid: true}.IsInvalid())
	assert.False(t, Eligibility{State: NotEligible, Reason: ReasonDVSRequiresPackage}.IsInvalid())
	assert.False(t, Eligibility{State: NotEligible, Reason: ReasonUnpaid}.IsInvalid())
	assert.False(t, Eligibility{State: PendingApproval}.IsInvalid())
}
