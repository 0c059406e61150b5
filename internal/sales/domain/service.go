package domain

import (
	"context"
	"errors"
	"time"
)

// Service applies the approval workflow flips that move a sale between eligibility states.
type Service interface {
	Get(ctx context.Context, id string) (*SaleResponse, error)
	SetVerification(ctx context.Context, id string, req VerificationRequest) (*SaleResponse, error)
	SetApproval(ctx context.Context, id string, req ApprovalRequest) (*SaleResponse, error)
	SetPaymentStatus(ctx context.Context, id string, req PaymentRequest) (*SaleResponse, error)
}

type VerificationRequest struct {
	TLVerified *bool `json:"tl_verified"`
}

type ApprovalRequest struct {
	AdminApproved *bool `json:"admin_approved"`
}

type PaymentRequest struct {
	PaymentStatus string `json:"payment_status"`
}

type SaleResponse struct {
	ID            string    `json:"id"`
	DSRID         string    `json:"dsr_id"`
	SaleType      string    `json:"sale_type"`
	PackageOption string    `json:"package_option,omitempty"`
	PackageCode   string    `json:"package_code,omitempty"`
	PaymentStatus string    `json:"payment_status"`
	TLVerified    bool      `json:"tl_verified"`
	AdminApproved bool      `json:"admin_approved"`
	StockID       string    `json:"stock_id,omitempty"`
	SoldAt        time.Time `json:"sold_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidFlag          = errors.New("invalid_flag")
	ErrInvalidPaymentStatus = errors.New("invalid_payment_status")
	ErrNotFound             = errors.New("not_found")
)
