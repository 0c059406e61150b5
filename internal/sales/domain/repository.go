package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertManager(ctx context.Context, db *gorm.DB, m *Manager) error
	InsertTeamLeader(ctx context.Context, db *gorm.DB, tl *TeamLeader) error
	InsertDSR(ctx context.Context, db *gorm.DB, dsr *DSR) error
	InsertSale(ctx context.Context, db *gorm.DB, sale *Sale) error

	FindManager(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Manager, error)
	FindTeamLeader(ctx context.Context, db *gorm.DB, id snowflake.ID) (*TeamLeader, error)
	FindDSR(ctx context.Context, db *gorm.DB, id snowflake.ID) (*DSR, error)
	FindSale(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Sale, error)

	ListManagers(ctx context.Context, db *gorm.DB) ([]Manager, error)
	ListTeamLeadersByManager(ctx context.Context, db *gorm.DB, managerID snowflake.ID) ([]TeamLeader, error)
	ListDSRsByTeamLeader(ctx context.Context, db *gorm.DB, teamLeaderID snowflake.ID) ([]DSR, error)
	// ListSalesByDSR returns sales with from <= sold_at < to, oldest first.
	ListSalesByDSR(ctx context.Context, db *gorm.DB, dsrID snowflake.ID, from, to time.Time) ([]Sale, error)

	UpdateVerification(ctx context.Context, db *gorm.DB, id snowflake.ID, verified bool, at time.Time) error
	UpdateApproval(ctx context.Context, db *gorm.DB, id snowflake.ID, approved bool, at time.Time) error
	UpdatePaymentStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string, at time.Time) error
}
