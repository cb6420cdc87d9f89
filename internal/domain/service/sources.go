package service

import (
	"context"

	"TrustTrace/internal/domain/models"
)

// FilingSource searches a public filing registry.
type FilingSource interface {
	SearchFilings(ctx context.Context, query string, rng *models.DateRange) ([]models.Filing, error)
}

// IdentifierSource searches and resolves security identifiers.
type IdentifierSource interface {
	SearchIdentifiers(ctx context.Context, query string) ([]models.IdentifierRecord, error)
	LookupIdentifier(ctx context.Context, identifier string) (*models.IdentifierRecord, error)
}

// RegistrantSource resolves registrant metadata behind a filing's registry id.
// Returns models.ErrNotFound for an unknown id.
type RegistrantSource interface {
	LookupRegistrant(ctx context.Context, registryID string) (*models.RegistrantRecord, error)
}

// ComplaintSource aggregates consumer complaints for a servicer.
type ComplaintSource interface {
	SearchComplaints(ctx context.Context, companyName string) (*models.ServicerRiskProfile, error)
}

// EconomicSource supplies the macro snapshot and per-category delinquency trend.
type EconomicSource interface {
	Snapshot(ctx context.Context) (*models.EconomicSnapshot, error)
	DelinquencyTrend(ctx context.Context, debtType models.DebtType, periods int) ([]models.DelinquencyPoint, error)
}

// TradeSource searches historical trade records for one identifier.
type TradeSource interface {
	SearchTrades(ctx context.Context, identifier string, rng *models.DateRange) ([]models.Trade, error)
}
