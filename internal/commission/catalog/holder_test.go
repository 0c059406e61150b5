package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salesops/internal/commission/domain"
	"github.com/smallbiznis/salesops/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const percentCatalog = `
commission:
  experience_months: 6
  require_stock_link: true
  products:
    FS:
      upfront: 2500
      activation: 600
    DO:
      upfront: 1000
      activation: 400
    DVS:
      upfront: 0
      activation: 300
  packages:
    mode: percent
    percent: "12.5"
    amounts:
      compact: 9999
      premium: 29999
  bonus_tiers:
    - name: Starter
      min_sales: 0
      max_sales: 19
      bonus: 0
    - name: Pro
      min_sales: 20
      bonus: 8000
      requires_experience: true
`

const invalidCatalog = `
commission:
  products:
    FS:
      upfront: -5
      activation: 0
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "commission.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewHolderReadsFile(t *testing.T) {
	path := writeCatalog(t, percentCatalog)

	h, err := NewHolder(Params{Config: config.Config{RateCatalogPath: path}, Log: zap.NewNop()})
	require.NoError(t, err)

	cat := h.Get()
	assert.Equal(t, path, h.Source())
	assert.Equal(t, 6, cat.ExperienceMonths)
	assert.True(t, cat.RequireStockLink)
	assert.Equal(t, domain.ProductRate{Upfront: 2500, Activation: 600}, cat.ProductRates[domain.ProductFullSet])

	percent, ok := cat.Packages.(domain.PercentPackageCommission)
	require.True(t, ok)
	assert.True(t, percent.Percent.Equal(decimal.RequireFromString("12.5")))

	amount, found := cat.ResolvePackageCommission("COMPACT")
	require.True(t, found)
	assert.Equal(t, domain.Money(1249), amount)

	require.Len(t, cat.BonusTiers, 2)
	assert.Nil(t, cat.BonusTiers[1].MaxSales)
	assert.True(t, cat.BonusTiers[1].RequiresExperience)
}

func TestNewHolderRejectsInvalidFile(t *testing.T) {
	path := writeCatalog(t, invalidCatalog)

	_, err := NewHolder(Params{Config: config.Config{RateCatalogPath: path}, Log: zap.NewNop()})
	require.ErrorIs(t, err, domain.ErrInvalidCatalog)
}

func TestNewHolderMissingExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yml")

	_, err := NewHolder(Params{Config: config.Config{RateCatalogPath: path}, Log: zap.NewNop()})
	require.Error(t, err)
}

func TestHolderReloadKeepsLastValidCatalog(t *testing.T) {
	path := writeCatalog(t, percentCatalog)
	h, err := NewHolder(Params{Config: config.Config{RateCatalogPath: path}, Log: zap.NewNop()})
	require.NoError(t, err)
	before := h.Get()

	require.NoError(t, os.WriteFile(path, []byte(invalidCatalog), 0o644))
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	require.Error(t, h.load(v))
	assert.Equal(t, before, h.Get())

	updated := DefaultFile()
	updated.Products["FS"] = ProductFile{Upfront: 3000, Activation: 700}
	cat, err := updated.RateCatalog()
	require.NoError(t, err)
	h.store(cat, "test")
	assert.Equal(t, domain.Money(3000), h.Get().ProductRates[domain.ProductFullSet].Upfront)
	assert.Equal(t, "test", h.Source())
}

func TestDefaultFileIsValid(t *testing.T) {
	cat, err := DefaultFile().RateCatalog()
	require.NoError(t, err)
	assert.Empty(t, cat.OverlappingTiers())
	assert.Len(t, cat.ProductRates, 3)
	assert.Equal(t, domain.PackageModeFlat, cat.Packages.Mode())
}

func TestFileRateCatalogErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *File)
	}{
		{name: "unknown product", mutate: func(f *File) { f.Products["SMARTCARD"] = ProductFile{Upfront: 1} }},
		{name: "unknown mode", mutate: func(f *File) { f.Packages.Mode = "tiered" }},
		{name: "bad percent", mutate: func(f *File) {
			f.Packages.Mode = domain.PackageModePercent
			f.Packages.Percent = "ten"
		}},
		{name: "percent out of range", mutate: func(f *File) {
			f.Packages.Mode = domain.PackageModePercent
			f.Packages.Percent = "150"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFile()
			tt.mutate(&f)
			_, err := f.RateCatalog()
			require.ErrorIs(t, err, domain.ErrInvalidCatalog)
		})
	}
}
