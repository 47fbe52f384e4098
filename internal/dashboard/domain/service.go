package domain

import (
	"context"
	"errors"
)

// Service assembles dashboard statistics for the org (and optional
// technician) scope carried in the context.
type Service interface {
	GetStats(ctx context.Context) (DashboardStats, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")

	// ErrGatewayFailure marks a hard failure of the primary source
	// (work orders). No partial stats are produced in this case:
	// downstream dashboards cannot distinguish "zero activity" from
	// "data missing".
	ErrGatewayFailure = errors.New("gateway_failure")
)
