package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

type Service interface {
	CalculateSale(ctx context.Context, req CalculateRequest) (*SaleCommission, error)
	DSRSummary(ctx context.Context, dsrID, period string) (*DSRSummary, error)
	TeamSummary(ctx context.Context, teamLeaderID, period string) (*TeamSummary, error)
	ManagerSummary(ctx context.Context, managerID, period string) (*ManagerSummary, error)
	Catalog(ctx context.Context) (*CatalogResponse, error)
}

// CalculateRequest is a sale fact as posted by a client. Values are parsed the
// same way stored sale rows are.
type CalculateRequest struct {
	ProductType      string `json:"product_type"`
	PackageSelection string `json:"package_selection"`
	PackageCode      string `json:"package_code"`
	PaymentStatus    string `json:"payment_status"`
	TLVerified       bool   `json:"tl_verified"`
	AdminApproved    bool   `json:"admin_approved"`
	StockLinkPresent bool   `json:"stock_link_present"`
}

type SaleCommission struct {
	Fact        SaleFact            `json:"fact"`
	Eligibility Eligibility         `json:"eligibility"`
	Breakdown   CommissionBreakdown `json:"breakdown"`
	Warnings    Warnings            `json:"warnings"`
}

type SaleLine struct {
	SaleID string    `json:"sale_id"`
	SoldAt time.Time `json:"sold_at"`
	SaleCommission
}

type SkippedSale struct {
	SaleID string `json:"sale_id"`
	Reason string `json:"reason"`
}

type DSRSummary struct {
	DSRID             string                  `json:"dsr_id"`
	TeamLeaderID      string                  `json:"team_leader_id"`
	Name              string                  `json:"name"`
	Period            string                  `json:"period"`
	TenureMonths      int                     `json:"tenure_months"`
	ValidSales        int                     `json:"valid_sales"`
	EligibleSales     int                     `json:"eligible_sales"`
	Tier              TierName                `json:"tier"`
	PotentialTier     TierName                `json:"potential_tier"`
	Summary           Summary                 `json:"summary"`
	ByType            map[ProductType]Summary `json:"by_type"`
	Sales             []SaleLine              `json:"sales"`
	Skipped           []SkippedSale           `json:"skipped"`
	PackageConfigGaps []string                `json:"package_config_gaps"`
}

type TeamSummary struct {
	TeamLeaderID string                  `json:"team_leader_id"`
	ManagerID    string                  `json:"manager_id"`
	Name         string                  `json:"name"`
	Period       string                  `json:"period"`
	Summary      Summary                 `json:"summary"`
	ByType       map[ProductType]Summary `json:"by_type"`
	DSRs         []DSRSummary            `json:"dsrs"`
}

type ManagerSummary struct {
	ManagerID string                  `json:"manager_id"`
	Name      string                  `json:"name"`
	Period    string                  `json:"period"`
	Summary   Summary                 `json:"summary"`
	ByType    map[ProductType]Summary `json:"by_type"`
	Teams     []TeamSummary           `json:"teams"`
}

type CatalogResponse struct {
	Source           string                      `json:"source"`
	ExperienceMonths int                         `json:"experience_months"`
	RequireStockLink bool                        `json:"require_stock_link"`
	ProductRates     map[ProductType]ProductRate `json:"product_rates"`
	Packages         PackagesResponse            `json:"packages"`
	BonusTiers       []BonusTier                 `json:"bonus_tiers"`
	OverlappingTiers [][2]TierName               `json:"overlapping_tiers,omitempty"`
}

// PackagesResponse lists package amounts. Amounts are commissions in flat mode and
// monthly prices in percent mode.
type PackagesResponse struct {
	Mode    string           `json:"mode"`
	Percent string           `json:"percent,omitempty"`
	Amounts map[string]Money `json:"amounts"`
}
