package repository

import (
	"context"
	"time"

	"TrustTrace/internal/domain/models"
)

// TradeFeed streams realtime trade prints from a market data feed.
type TradeFeed interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.TradePrint, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// PrintPublisher publishes trade prints to the message backend.
type PrintPublisher interface {
	Publish(ctx context.Context, p *models.TradePrint) error
	PublishBatch(ctx context.Context, prints []*models.TradePrint) error
	Close() error
}

// TradeArchive stores streamed trade prints and serves historical queries.
type TradeArchive interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, p *models.TradePrint) error
	StoreBatch(ctx context.Context, prints []*models.TradePrint) error
	Query(ctx context.Context, identifier string, from, to time.Time, limit int) ([]models.Trade, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// ReportPublisher publishes completed investigation reports.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report *models.InvestigationReport) error
	Close() error
}

// Metrics records operational metrics for the engine.
type Metrics interface {
	RecordInvestigation(debtType string, candidates int)
	RecordSourceError(source string)
	RecordPrintStored(backend, identifier string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
