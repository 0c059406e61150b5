package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Manager struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Manager) TableName() string { return "managers" }

type TeamLeader struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	ManagerID snowflake.ID `json:"manager_id" gorm:"column:manager_id;not null;index"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TeamLeader) TableName() string { return "team_leaders" }

// DSR is a direct sales representative. JoinedAt drives tenure.
type DSR struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	TeamLeaderID snowflake.ID `json:"team_leader_id" gorm:"column:team_leader_id;not null;index"`
	Name         string       `json:"name" gorm:"type:text;not null"`
	Zone         string       `json:"zone" gorm:"type:text"`
	JoinedAt     time.Time    `json:"joined_at" gorm:"not null"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DSR) TableName() string { return "dsrs" }

// Sale is the stored sale row. String columns are kept as entered; ToSaleFact
// is the only place they are interpreted.
type Sale struct {
	ID            snowflake.ID  `json:"id" gorm:"primaryKey"`
	DSRID         snowflake.ID  `json:"dsr_id" gorm:"column:dsr_id;not null;index"`
	SaleType      string        `json:"sale_type" gorm:"type:text;not null"`
	PackageOption string        `json:"package_option" gorm:"type:text"`
	PackageCode   string        `json:"package_code" gorm:"type:text"`
	PaymentStatus string        `json:"payment_status" gorm:"type:text;not null"`
	TLVerified    bool          `json:"tl_verified" gorm:"column:tl_verified;not null;default:false"`
	AdminApproved bool          `json:"admin_approved" gorm:"not null;default:false"`
	StockID       *snowflake.ID `json:"stock_id,omitempty" gorm:"column:stock_id"`
	SoldAt        time.Time     `json:"sold_at" gorm:"not null;index"`
	CreatedAt     time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Sale) TableName() string { return "sales" }
