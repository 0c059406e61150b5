package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salesops/internal/clock"
	"github.com/smallbiznis/salesops/internal/commission/catalog"
	commissiondomain "github.com/smallbiznis/salesops/internal/commission/domain"
	"github.com/smallbiznis/salesops/internal/commission/engine"
	obslogger "github.com/smallbiznis/salesops/internal/observability/logger"
	"github.com/smallbiznis/salesops/internal/observability/metrics"
	salesdomain "github.com/smallbiznis/salesops/internal/sales/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Catalog   *catalog.Holder
	SalesRepo salesdomain.Repository
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	catalog   *catalog.Holder
	salesRepo salesdomain.Repository
	metrics   *metrics.Metrics
}

func NewService(p Params) commissiondomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("commission.service"),
		clock:     p.Clock,
		catalog:   p.Catalog,
		salesRepo: p.SalesRepo,
		metrics:   p.Metrics,
	}
}

func (s *Service) CalculateSale(ctx context.Context, req commissiondomain.CalculateRequest) (*commissiondomain.SaleCommission, error) {
	fact := commissiondomain.SaleFact{
		ProductType:      salesdomain.ParseSaleType(req.ProductType),
		PackageSelection: salesdomain.ParsePackageOption(req.PackageSelection, req.PackageCode),
		PaymentStatus:    salesdomain.ParsePaymentStatus(req.PaymentStatus),
		TLVerified:       req.TLVerified,
		AdminApproved:    req.AdminApproved,
		StockLinkPresent: req.StockLinkPresent,
	}
	if fact.PackageSelection == commissiondomain.WithPackage {
		fact.PackageCode = commissiondomain.NormalizePackageCode(req.PackageCode)
	}

	result, err := s.calculate(ctx, "", fact, s.catalog.Get())
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) DSRSummary(ctx context.Context, dsrID, period string) (*commissiondomain.DSRSummary, error) {
	id, err := parseID(dsrID)
	if err != nil {
		return nil, commissiondomain.ErrInvalidDSR
	}
	p, err := commissiondomain.ParsePeriod(period, s.clock.Now())
	if err != nil {
		return nil, err
	}

	dsr, err := s.salesRepo.FindDSR(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if dsr == nil {
		return nil, commissiondomain.ErrNotFound
	}

	return s.summarizeDSR(ctx, *dsr, p, s.catalog.Get())
}

func (s *Service) TeamSummary(ctx context.Context, teamLeaderID, period string) (*commissiondomain.TeamSummary, error) {
	id, err := parseID(teamLeaderID)
	if err != nil {
		return nil, commissiondomain.ErrInvalidTeamLeader
	}
	p, err := commissiondomain.ParsePeriod(period, s.clock.Now())
	if err != nil {
		return nil, err
	}

	tl, err := s.salesRepo.FindTeamLeader(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if tl == nil {
		return nil, commissiondomain.ErrNotFound
	}

	return s.summarizeTeam(ctx, *tl, p, s.catalog.Get())
}

func (s *Service) ManagerSummary(ctx context.Context, managerID, period string) (*commissiondomain.ManagerSummary, error) {
	id, err := parseID(managerID)
	if err != nil {
		return nil, commissiondomain.ErrInvalidManager
	}
	p, err := commissiondomain.ParsePeriod(period, s.clock.Now())
	if err != nil {
		return nil, err
	}

	manager, err := s.salesRepo.FindManager(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, commissiondomain.ErrNotFound
	}

	teamLeaders, err := s.salesRepo.ListTeamLeadersByManager(ctx, s.db, manager.ID)
	if err != nil {
		return nil, err
	}

	// Single catalog snapshot for the whole report.
	rates := s.catalog.Get()
	out := &commissiondomain.ManagerSummary{
		ManagerID: manager.ID.String(),
		Name:      manager.Name,
		Period:    p.String(),
		ByType:    map[commissiondomain.ProductType]commissiondomain.Summary{},
		Teams:     make([]commissiondomain.TeamSummary, 0, len(teamLeaders)),
	}
	for _, tl := range teamLeaders {
		team, err := s.summarizeTeam(ctx, tl, p, rates)
		if err != nil {
			return nil, err
		}
		out.Summary = out.Summary.Add(team.Summary)
		out.ByType = commissiondomain.MergeByType(out.ByType, team.ByType)
		out.Teams = append(out.Teams, *team)
	}
	return out, nil
}

func (s *Service) Catalog(ctx context.Context) (*commissiondomain.CatalogResponse, error) {
	rates := s.catalog.Get()

	resp := &commissiondomain.CatalogResponse{
		Source:           s.catalog.Source(),
		ExperienceMonths: rates.ExperienceMonths,
		RequireStockLink: rates.RequireStockLink,
		ProductRates:     make(map[commissiondomain.ProductType]commissiondomain.ProductRate, len(rates.ProductRates)),
		BonusTiers:       rates.SortedTiers(),
		OverlappingTiers: rates.OverlappingTiers(),
	}
	for productType, rate := range rates.ProductRates {
		resp.ProductRates[productType] = rate
	}

	switch p := rates.Packages.(type) {
	case commissiondomain.FlatPackageCommission:
		resp.Packages = commissiondomain.PackagesResponse{Mode: p.Mode(), Amounts: copyAmounts(p)}
	case commissiondomain.PercentPackageCommission:
		resp.Packages = commissiondomain.PackagesResponse{Mode: p.Mode(), Percent: p.Percent.String(), Amounts: copyAmounts(p.Prices)}
	default:
		resp.Packages = commissiondomain.PackagesResponse{Mode: commissiondomain.PackageModeFlat, Amounts: map[string]commissiondomain.Money{}}
	}
	return resp, nil
}

func (s *Service) summarizeTeam(ctx context.Context, tl salesdomain.TeamLeader, p commissiondomain.Period, rates commissiondomain.RateCatalog) (*commissiondomain.TeamSummary, error) {
	dsrs, err := s.salesRepo.ListDSRsByTeamLeader(ctx, s.db, tl.ID)
	if err != nil {
		return nil, err
	}

	out := &commissiondomain.TeamSummary{
		TeamLeaderID: tl.ID.String(),
		ManagerID:    tl.ManagerID.String(),
		Name:         tl.Name,
		Period:       p.String(),
		ByType:       map[commissiondomain.ProductType]commissiondomain.Summary{},
		DSRs:         make([]commissiondomain.DSRSummary, 0, len(dsrs)),
	}
	for _, dsr := range dsrs {
		summary, err := s.summarizeDSR(ctx, dsr, p, rates)
		if err != nil {
			return nil, err
		}
		out.Summary = out.Summary.Add(summary.Summary)
		out.ByType = commissiondomain.MergeByType(out.ByType, summary.ByType)
		out.DSRs = append(out.DSRs, *summary)
	}
	return out, nil
}

func (s *Service) summarizeDSR(ctx context.Context, dsr salesdomain.DSR, p commissiondomain.Period, rates commissiondomain.RateCatalog) (*commissiondomain.DSRSummary, error) {
	rows, err := s.salesRepo.ListSalesByDSR(ctx, s.db, dsr.ID, p.Start, p.End)
	if err != nil {
		return nil, err
	}

	out := &commissiondomain.DSRSummary{
		DSRID:             dsr.ID.String(),
		TeamLeaderID:      dsr.TeamLeaderID.String(),
		Name:              dsr.Name,
		Period:            p.String(),
		TenureMonths:      salesdomain.TenureMonths(dsr.JoinedAt, p.End),
		Sales:             make([]commissiondomain.SaleLine, 0, len(rows)),
		Skipped:           []commissiondomain.SkippedSale{},
		PackageConfigGaps: []string{},
	}

	entries := make([]engine.Entry, 0, len(rows))
	gaps := map[string]struct{}{}
	for _, row := range rows {
		saleID := row.ID.String()
		result, err := s.calculate(ctx, saleID, salesdomain.ToSaleFact(row), rates)
		entries = append(entries, engine.Entry{
			Fact:        result.Fact,
			Eligibility: result.Eligibility,
			Breakdown:   result.Breakdown,
		})
		if err != nil {
			if !errors.Is(err, commissiondomain.ErrInvalidInput) {
				return nil, err
			}
			out.Skipped = append(out.Skipped, commissiondomain.SkippedSale{SaleID: saleID, Reason: result.Eligibility.Reason})
			continue
		}

		if result.Warnings.PackageConfigGap {
			gaps[result.Warnings.MissingPackageCode] = struct{}{}
		}
		out.Sales = append(out.Sales, commissiondomain.SaleLine{
			SaleID:         saleID,
			SoldAt:         row.SoldAt,
			SaleCommission: result,
		})
	}

	out.ValidSales = len(out.Sales)
	for _, line := range out.Sales {
		if line.Eligibility.State == commissiondomain.Eligible {
			out.EligibleSales++
		}
	}

	// The earned tier counts eligible sales only. The tier the DSR would reach if
	// every valid sale became eligible feeds potential.
	out.Tier = engine.ResolveTier(out.EligibleSales, out.TenureMonths, rates.BonusTiers, rates.ExperienceMonths)
	bonus := engine.ResolveBonus(out.Tier, out.EligibleSales, rates.BonusTiers)
	out.PotentialTier = engine.ResolveTier(out.ValidSales, out.TenureMonths, rates.BonusTiers, rates.ExperienceMonths)
	potentialBonus := engine.ResolveBonus(out.PotentialTier, out.ValidSales, rates.BonusTiers)

	out.Summary = engine.Aggregate(entries, bonus)
	out.Summary = engine.WithPotentialBonus(out.Summary, potentialBonus-bonus)
	out.ByType = engine.AggregateByType(entries)

	for code := range gaps {
		out.PackageConfigGaps = append(out.PackageConfigGaps, code)
	}
	sort.Strings(out.PackageConfigGaps)
	return out, nil
}

// calculate runs the engine on one fact and records its outcome. saleID is empty
// for ad-hoc calculations.
func (s *Service) calculate(ctx context.Context, saleID string, fact commissiondomain.SaleFact, rates commissiondomain.RateCatalog) (commissiondomain.SaleCommission, error) {
	result, err := engine.Calculate(fact, rates)
	out := commissiondomain.SaleCommission{
		Fact:        fact,
		Eligibility: result.Eligibility,
		Breakdown:   result.Breakdown,
		Warnings:    result.Warnings,
	}
	s.metrics.RecordCalculation(ctx, string(result.Eligibility.State))

	log := obslogger.WithContext(ctx, s.log)
	if err != nil {
		s.metrics.RecordInvalidSale(ctx, result.Eligibility.Reason)
		log.Warn("sale rejected by commission engine",
			zap.String("sale_id", saleID),
			zap.String("product_type", string(fact.ProductType)),
			zap.String("reason", result.Eligibility.Reason),
		)
		return out, err
	}
	if result.Warnings.PackageConfigGap {
		s.metrics.RecordPackageConfigGap(ctx)
		log.Warn("package code missing from rate catalog",
			zap.String("sale_id", saleID),
			zap.String("package_code", result.Warnings.MissingPackageCode),
		)
	}
	return out, nil
}

func copyAmounts(in map[string]commissiondomain.Money) map[string]commissiondomain.Money {
	out := make(map[string]commissiondomain.Money, len(in))
	for code, amount := range in {
		out[code] = amount
	}
	return out
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
