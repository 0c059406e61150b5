package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	salesdomain "github.com/smallbiznis/salesops/internal/sales/domain"
	"github.com/smallbiznis/salesops/internal/sales/repository"
	"github.com/smallbiznis/salesops/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	demoManagerID    snowflake.ID = 1
	demoTeamLeaderID snowflake.ID = 2
	demoDSRID        snowflake.ID = 3
)

// EnsureDemoHierarchy seeds one manager, team leader and DSR with a handful of
// sales in the current month. It is a no-op once the demo manager exists.
func EnsureDemoHierarchy(ctx context.Context, conn *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
	if conn == nil {
		return errors.New("seed database handle is required")
	}
	log = log.Named("seed")
	repo := repository.Provide()
	now := time.Now().UTC()

	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.InsertManager(ctx, tx, &salesdomain.Manager{ID: demoManagerID, Name: "Demo Manager", CreatedAt: now}); err != nil {
			return err
		}
		if err := repo.InsertTeamLeader(ctx, tx, &salesdomain.TeamLeader{ID: demoTeamLeaderID, ManagerID: demoManagerID, Name: "Demo Team Leader", CreatedAt: now}); err != nil {
			return err
		}
		if err := repo.InsertDSR(ctx, tx, &salesdomain.DSR{
			ID:           demoDSRID,
			TeamLeaderID: demoTeamLeaderID,
			Name:         "Demo DSR",
			Zone:         "Central",
			JoinedAt:     now.AddDate(0, -6, 0),
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		for _, sale := range demoSales(node, now) {
			if err := repo.InsertSale(ctx, tx, &sale); err != nil {
				return err
			}
		}
		return nil
	})
	if db.IsDuplicateKey(err) {
		log.Debug("demo hierarchy already seeded")
		return nil
	}
	if err != nil {
		return err
	}

	log.Info("demo hierarchy seeded", zap.String("dsr_id", demoDSRID.String()))
	return nil
}

func demoSales(node *snowflake.Node, now time.Time) []salesdomain.Sale {
	monthStart := time.Date(now.Year(), now.Month(), 1, 9, 0, 0, 0, time.UTC)
	stockID := node.Generate()

	rows := []salesdomain.Sale{
		{SaleType: "FS", PackageOption: "with_package", PackageCode: "COMPACT", PaymentStatus: "paid", TLVerified: true, AdminApproved: true, StockID: &stockID},
		{SaleType: "DO", PackageOption: "no_package", PaymentStatus: "unpaid"},
		{SaleType: "DVS", PackageOption: "with_package", PackageCode: "PREMIUM", PaymentStatus: "paid", TLVerified: true},
	}
	for i := range rows {
		rows[i].ID = node.Generate()
		rows[i].DSRID = demoDSRID
		rows[i].SoldAt = monthStart.Add(time.Duration(i) * time.Hour)
		rows[i].CreatedAt = now
		rows[i].UpdatedAt = now
	}
	return rows
}
