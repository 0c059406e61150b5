package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("invalid_input")
	ErrInvalidCatalog = errors.New("invalid_rate_catalog")

	ErrDVSRequiresPackage = fmt.Errorf("%w: dvs_requires_package", ErrInvalidInput)
	ErrUnknownProductType = fmt.Errorf("%w: unknown_product_type", ErrInvalidInput)

	ErrInvalidDSR        = errors.New("invalid_dsr")
	ErrInvalidTeamLeader = errors.New("invalid_team_leader")
	ErrInvalidManager    = errors.New("invalid_manager")
	ErrInvalidPeriod     = errors.New("invalid_period")
	ErrNotFound          = errors.New("not_found")
)
