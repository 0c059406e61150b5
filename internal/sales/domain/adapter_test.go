package domain

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	commissiondomain "github.com/smallbiznis/salesops/internal/commission/domain"
	"github.com/stretchr/testify/assert"
)

func TestToSaleFact(t *testing.T) {
	stockID := snowflake.ID(42)

	tests := []struct {
		name string
		sale Sale
		want commissiondomain.SaleFact
	}{
		{
			name: "spelled out full set with package",
			sale: Sale{SaleType: "Full Set", PackageOption: "with_package", PackageCode: " compact ", PaymentStatus: "PAID", TLVerified: true, AdminApproved: true, StockID: &stockID},
			want: commissiondomain.SaleFact{
				ProductType:      commissiondomain.ProductFullSet,
				PackageSelection: commissiondomain.WithPackage,
				PackageCode:      "COMPACT",
				PaymentStatus:    commissiondomain.Paid,
				TLVerified:       true,
				AdminApproved:    true,
				StockLinkPresent: true,
			},
		},
		{
			name: "decoder only code without package drops stray code",
			sale: Sale{SaleType: "do", PackageOption: "no", PackageCode: "PREMIUM", PaymentStatus: "unpaid"},
			want: commissiondomain.SaleFact{
				ProductType:      commissiondomain.ProductDecoderOnly,
				PackageSelection: commissiondomain.NoPackage,
				PaymentStatus:    commissiondomain.Unpaid,
			},
		},
		{
			name: "dvs inferred package from code",
			sale: Sale{SaleType: "digital-virtual-stock", PackageCode: "family", PaymentStatus: "paid"},
			want: commissiondomain.SaleFact{
				ProductType:      commissiondomain.ProductDigitalVirtualStock,
				PackageSelection: commissiondomain.WithPackage,
				PackageCode:      "FAMILY",
				PaymentStatus:    commissiondomain.Paid,
			},
		},
		{
			name: "unknown sale type passes through",
			sale: Sale{SaleType: "smartcard", PaymentStatus: "pending"},
			want: commissiondomain.SaleFact{
				ProductType:      "SMARTCARD",
				PackageSelection: commissiondomain.NoPackage,
				PaymentStatus:    commissiondomain.Unpaid,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSaleFact(tt.sale))
		})
	}
}

func TestTenureMonths(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		joined time.Time
		asOf   time.Time
		want   int
	}{
		{joined: day(2024, 1, 1), asOf: day(2024, 4, 1), want: 3},
		{joined: day(2024, 1, 15), asOf: day(2024, 4, 1), want: 2},
		{joined: day(2023, 11, 10), asOf: day(2024, 2, 10), want: 3},
		{joined: day(2024, 5, 1), asOf: day(2024, 4, 1), want: 0},
		{joined: day(2024, 3, 31), asOf: day(2024, 4, 1), want: 0},
		{joined: day(2020, 6, 1), asOf: day(2024, 6, 1), want: 48},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TenureMonths(tt.joined, tt.asOf), "joined=%s asOf=%s", tt.joined, tt.asOf)
	}
}
