package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	salesdomain "github.com/smallbiznis/salesops/internal/sales/domain"
	"gorm.io/gorm"
)

const saleColumns = `id, dsr_id, sale_type, package_option, package_code, payment_status,
	 tl_verified, admin_approved, stock_id, sold_at, created_at, updated_at`

type repo struct{}

func Provide() salesdomain.Repository {
	return &repo{}
}

func (r *repo) InsertManager(ctx context.Context, db *gorm.DB, m *salesdomain.Manager) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO managers (id, name, created_at) VALUES (?, ?, ?)`,
		m.ID,
		m.Name,
		m.CreatedAt,
	).Error
}

func (r *repo) InsertTeamLeader(ctx context.Context, db *gorm.DB, tl *salesdomain.TeamLeader) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO team_leaders (id, manager_id, name, created_at) VALUES (?, ?, ?, ?)`,
		tl.ID,
		tl.ManagerID,
		tl.Name,
		tl.CreatedAt,
	).Error
}

func (r *repo) InsertDSR(ctx context.Context, db *gorm.DB, dsr *salesdomain.DSR) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO dsrs (id, team_leader_id, name, zone, joined_at, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		dsr.ID,
		dsr.TeamLeaderID,
		dsr.Name,
		dsr.Zone,
		dsr.JoinedAt,
		dsr.CreatedAt,
	).Error
}

func (r *repo) InsertSale(ctx context.Context, db *gorm.DB, sale *salesdomain.Sale) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO sales (`+saleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID,
		sale.DSRID,
		sale.SaleType,
		sale.PackageOption,
		sale.PackageCode,
		sale.PaymentStatus,
		sale.TLVerified,
		sale.AdminApproved,
		sale.StockID,
		sale.SoldAt,
		sale.CreatedAt,
		sale.UpdatedAt,
	).Error
}

func (r *repo) FindManager(ctx context.Context, db *gorm.DB, id snowflake.ID) (*salesdomain.Manager, error) {
	var m salesdomain.Manager
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, created_at FROM managers WHERE id = ?`,
		id,
	).Scan(&m).Error
	if err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, nil
	}
	return &m, nil
}

func (r *repo) FindTeamLeader(ctx context.Context, db *gorm.DB, id snowflake.ID) (*salesdomain.TeamLeader, error) {
	var tl salesdomain.TeamLeader
	err := db.WithContext(ctx).Raw(
		`SELECT id, manager_id, name, created_at FROM team_leaders WHERE id = ?`,
		id,
	).Scan(&tl).Error
	if err != nil {
		return nil, err
	}
	if tl.ID == 0 {
		return nil, nil
	}
	return &tl, nil
}

func (r *repo) FindDSR(ctx context.Context, db *gorm.DB, id snowflake.ID) (*salesdomain.DSR, error) {
	var dsr salesdomain.DSR
	err := db.WithContext(ctx).Raw(
		`SELECT id, team_leader_id, name, zone, joined_at, created_at FROM dsrs WHERE id = ?`,
		id,
	).Scan(&dsr).Error
	if err != nil {
		return nil, err
	}
	if dsr.ID == 0 {
		return nil, nil
	}
	return &dsr, nil
}

func (r *repo) FindSale(ctx context.Context, db *gorm.DB, id snowflake.ID) (*salesdomain.Sale, error) {
	var sale salesdomain.Sale
	err := db.WithContext(ctx).Raw(
		`SELECT `+saleColumns+` FROM sales WHERE id = ?`,
		id,
	).Scan(&sale).Error
	if err != nil {
		return nil, err
	}
	if sale.ID == 0 {
		return nil, nil
	}
	return &sale, nil
}

func (r *repo) ListManagers(ctx context.Context, db *gorm.DB) ([]salesdomain.Manager, error) {
	var items []salesdomain.Manager
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, created_at FROM managers ORDER BY id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListTeamLeadersByManager(ctx context.Context, db *gorm.DB, managerID snowflake.ID) ([]salesdomain.TeamLeader, error) {
	var items []salesdomain.TeamLeader
	err := db.WithContext(ctx).Raw(
		`SELECT id, manager_id, name, created_at FROM team_leaders WHERE manager_id = ? ORDER BY id ASC`,
		managerID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListDSRsByTeamLeader(ctx context.Context, db *gorm.DB, teamLeaderID snowflake.ID) ([]salesdomain.DSR, error) {
	var items []salesdomain.DSR
	err := db.WithContext(ctx).Raw(
		`SELECT id, team_leader_id, name, zone, joined_at, created_at FROM dsrs WHERE team_leader_id = ? ORDER BY id ASC`,
		teamLeaderID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListSalesByDSR(ctx context.Context, db *gorm.DB, dsrID snowflake.ID, from, to time.Time) ([]salesdomain.Sale, error) {
	var items []salesdomain.Sale
	err := db.WithContext(ctx).Raw(
		`SELECT `+saleColumns+` FROM sales
		 WHERE dsr_id = ? AND sold_at >= ? AND sold_at < ?
		 ORDER BY sold_at ASC, id ASC`,
		dsrID,
		from,
		to,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateVerification(ctx context.Context, db *gorm.DB, id snowflake.ID, verified bool, at time.Time) error {
	return r.update(ctx, db, `UPDATE sales SET tl_verified = ?, updated_at = ? WHERE id = ?`, verified, at, id)
}

func (r *repo) UpdateApproval(ctx context.Context, db *gorm.DB, id snowflake.ID, approved bool, at time.Time) error {
	return r.update(ctx, db, `UPDATE sales SET admin_approved = ?, updated_at = ? WHERE id = ?`, approved, at, id)
}

func (r *repo) UpdatePaymentStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string, at time.Time) error {
	return r.update(ctx, db, `UPDATE sales SET payment_status = ?, updated_at = ? WHERE id = ?`, status, at, id)
}

func (r *repo) update(ctx context.Context, db *gorm.DB, query string, args ...any) error {
	res := db.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return salesdomain.ErrNotFound
	}
	return nil
}
