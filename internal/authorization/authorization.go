package authorization

import (
	"context"
	"errors"
)

const (
	ObjectSale    = "sale"
	ObjectReport  = "commission_report"
	ObjectCatalog = "rate_catalog"
)

const (
	ActionSaleVerify  = "sale.verify"
	ActionSaleApprove = "sale.approve"
	ActionSalePayment = "sale.payment"

	ActionReportView  = "commission_report.view"
	ActionCatalogView = "rate_catalog.view"
)

const (
	RoleDSR        = "dsr"
	RoleTeamLeader = "team_leader"
	RoleManager    = "manager"
	RoleAdmin      = "admin"
)

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)

// Service decides whether a role may perform an action on an object.
type Service interface {
	Authorize(ctx context.Context, role string, object string, action string) error
}
