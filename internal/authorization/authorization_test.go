package authorization

import (
	"context"
	"testing"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/smallbiznis/salesops/internal/config"
	"github.com/smallbiznis/salesops/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)

	enforcer, err := NewEnforcer(config.Config{AuthzEnabled: true}, conn)
	require.NoError(t, err)
	require.NotNil(t, enforcer)

	svc := NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
	require.NotNil(t, svc)
	return svc
}

func TestAuthorize(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name   string
		role   string
		object string
		action string
		want   error
	}{
		{"dsr views reports", RoleDSR, ObjectReport, ActionReportView, nil},
		{"dsr cannot verify", RoleDSR, ObjectSale, ActionSaleVerify, ErrForbidden},
		{"team leader verifies", RoleTeamLeader, ObjectSale, ActionSaleVerify, nil},
		{"team leader inherits report view", RoleTeamLeader, ObjectReport, ActionReportView, nil},
		{"team leader cannot approve", RoleTeamLeader, ObjectSale, ActionSaleApprove, ErrForbidden},
		{"manager cannot record payment", RoleManager, ObjectSale, ActionSalePayment, ErrForbidden},
		{"admin approves", " Admin ", ObjectSale, ActionSaleApprove, nil},
		{"admin records payment", RoleAdmin, ObjectSale, ActionSalePayment, nil},
		{"admin inherits verify", RoleAdmin, ObjectSale, ActionSaleVerify, nil},
		{"unknown role", "guest", ObjectReport, ActionReportView, ErrForbidden},
		{"missing role", "", ObjectSale, ActionSaleVerify, ErrInvalidActor},
		{"missing object", RoleAdmin, "", ActionSaleVerify, ErrInvalidObject},
		{"missing action", RoleAdmin, ObjectSale, " ", ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Authorize(context.Background(), tt.role, tt.object, tt.action)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	adapter, err := gormadapter.NewAdapterByDB(conn)
	require.NoError(t, err)

	first, err := newEnforcer(adapter)
	require.NoError(t, err)
	before, err := first.GetPolicy()
	require.NoError(t, err)

	second, err := newEnforcer(adapter)
	require.NoError(t, err)
	after, err := second.GetPolicy()
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after)
}

func TestDisabled(t *testing.T) {
	enforcer, err := NewEnforcer(config.Config{}, nil)
	require.NoError(t, err)
	assert.Nil(t, enforcer)
	assert.Nil(t, NewService(Params{Log: zap.NewNop()}))
}
