package catalog

import "github.com/smallbiznis/salesops/internal/commission/domain"

// DefaultFile is the catalog used when no commission.yml is found.
func DefaultFile() File {
	return File{
		ExperienceMonths: domain.DefaultExperienceMonths,
		Products: map[string]ProductFile{
			string(domain.ProductFullSet):             {Upfront: 2000, Activation: 500},
			string(domain.ProductDecoderOnly):         {Upfront: 1500, Activation: 500},
			string(domain.ProductDigitalVirtualStock): {Upfront: 0, Activation: 500},
		},
		Packages: PackagesFile{
			Mode: domain.PackageModeFlat,
			Amounts: map[string]int64{
				"ACCESS":       500,
				"FAMILY":       1000,
				"COMPACT":      1500,
				"COMPACT_PLUS": 2000,
				"PREMIUM":      3000,
			},
		},
		BonusTiers: []TierFile{
			{Name: "Bronze", MinSales: 0, MaxSales: domain.IntPtr(9), Bonus: 0},
			{Name: "Silver", MinSales: 10, MaxSales: domain.IntPtr(44), Bonus: 5000},
			{Name: "Gold", MinSales: 45, MaxSales: nil, Bonus: 15000, RequiresExperience: true},
		},
	}
}
