package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salesops/internal/clock"
	commissiondomain "github.com/smallbiznis/salesops/internal/commission/domain"
	salesdomain "github.com/smallbiznis/salesops/internal/sales/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  salesdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  salesdomain.Repository
}

func New(p Params) salesdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("sales.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*salesdomain.SaleResponse, error) {
	saleID, err := parseID(id)
	if err != nil {
		return nil, salesdomain.ErrInvalidID
	}
	return s.load(ctx, saleID)
}

func (s *Service) SetVerification(ctx context.Context, id string, req salesdomain.VerificationRequest) (*salesdomain.SaleResponse, error) {
	saleID, err := parseID(id)
	if err != nil {
		return nil, salesdomain.ErrInvalidID
	}
	if req.TLVerified == nil {
		return nil, salesdomain.ErrInvalidFlag
	}

	if err := s.repo.UpdateVerification(ctx, s.db, saleID, *req.TLVerified, s.clock.Now()); err != nil {
		return nil, err
	}
	s.log.Info("sale verification updated",
		zap.String("sale_id", saleID.String()),
		zap.Bool("tl_verified", *req.TLVerified),
	)
	return s.load(ctx, saleID)
}

func (s *Service) SetApproval(ctx context.Context, id string, req salesdomain.ApprovalRequest) (*salesdomain.SaleResponse, error) {
	saleID, err := parseID(id)
	if err != nil {
		return nil, salesdomain.ErrInvalidID
	}
	if req.AdminApproved == nil {
		return nil, salesdomain.ErrInvalidFlag
	}

	if err := s.repo.UpdateApproval(ctx, s.db, saleID, *req.AdminApproved, s.clock.Now()); err != nil {
		return nil, err
	}
	s.log.Info("sale approval updated",
		zap.String("sale_id", saleID.String()),
		zap.Bool("admin_approved", *req.AdminApproved),
	)
	return s.load(ctx, saleID)
}

func (s *Service) SetPaymentStatus(ctx context.Context, id string, req salesdomain.PaymentRequest) (*salesdomain.SaleResponse, error) {
	saleID, err := parseID(id)
	if err != nil {
		return nil, salesdomain.ErrInvalidID
	}

	var status commissiondomain.PaymentStatus
	switch strings.ToLower(strings.TrimSpace(req.PaymentStatus)) {
	case string(commissiondomain.Paid):
		status = commissiondomain.Paid
	case string(commissiondomain.Unpaid):
		status = commissiondomain.Unpaid
	default:
		return nil, salesdomain.ErrInvalidPaymentStatus
	}

	if err := s.repo.UpdatePaymentStatus(ctx, s.db, saleID, string(status), s.clock.Now()); err != nil {
		return nil, err
	}
	s.log.Info("sale payment status updated",
		zap.String("sale_id", saleID.String()),
		zap.String("payment_status", string(status)),
	)
	return s.load(ctx, saleID)
}

func (s *Service) load(ctx context.Context, id snowflake.ID) (*salesdomain.SaleResponse, error) {
	sale, err := s.repo.FindSale(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, salesdomain.ErrNotFound
	}
	return toResponse(sale), nil
}

func toResponse(sale *salesdomain.Sale) *salesdomain.SaleResponse {
	resp := &salesdomain.SaleResponse{
		ID:            sale.ID.String(),
		DSRID:         sale.DSRID.String(),
		SaleType:      sale.SaleType,
		PackageOption: sale.PackageOption,
		PackageCode:   sale.PackageCode,
		PaymentStatus: sale.PaymentStatus,
		TLVerified:    sale.TLVerified,
		AdminApproved: sale.AdminApproved,
		SoldAt:        sale.SoldAt,
		UpdatedAt:     sale.UpdatedAt,
	}
	if sale.StockID != nil {
		resp.StockID = sale.StockID.String()
	}
	return resp
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
