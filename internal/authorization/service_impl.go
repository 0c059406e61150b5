package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/smallbiznis/salesops/internal/config"
	obslogger "github.com/smallbiznis/salesops/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer loads the policy table from the database and seeds the built-in
// role policies. It returns nil when authorization is disabled.
func NewEnforcer(cfg config.Config, db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	if !cfg.AuthzEnabled {
		return nil, nil
	}
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	return newEnforcer(adapter)
}

func newEnforcer(adapter *gormadapter.Adapter) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// NewService returns nil without an enforcer; callers treat a nil Service as allow-all.
func NewService(p Params) Service {
	if p.Enforcer == nil {
		return nil
	}
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, role string, object string, action string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	allowed, err := s.enforcer.Enforce(roleSubject(role), object, action)
	if err != nil {
		return err
	}
	if !allowed {
		obslogger.WithContext(ctx, s.log).Info("authorization denied",
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func roleSubject(role string) string {
	return fmt.Sprintf("role:%s", role)
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{roleSubject(RoleDSR), ObjectReport, ActionReportView},
		{roleSubject(RoleDSR), ObjectCatalog, ActionCatalogView},

		{roleSubject(RoleTeamLeader), ObjectSale, ActionSaleVerify},

		{roleSubject(RoleAdmin), ObjectSale, ActionSaleApprove},
		{roleSubject(RoleAdmin), ObjectSale, ActionSalePayment},
	}
	for _, policy := range policies {
		has, err := enforcer.HasPolicy(policy[0], policy[1], policy[2])
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			return err
		}
	}

	// Each role inherits everything granted to the one below it.
	groupings := [][]string{
		{roleSubject(RoleTeamLeader), roleSubject(RoleDSR)},
		{roleSubject(RoleManager), roleSubject(RoleTeamLeader)},
		{roleSubject(RoleAdmin), roleSubject(RoleManager)},
	}
	for _, grouping := range groupings {
		has, err := enforcer.HasGroupingPolicy(grouping[0], grouping[1])
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddGroupingPolicy(grouping[0], grouping[1]); err != nil {
			return err
		}
	}
	return nil
}
