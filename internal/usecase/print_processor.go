package usecase

import (
	"context"
	"fmt"
	"time"

	"TrustTrace/internal/domain/models"
	drepo "TrustTrace/internal/domain/repository"
)

// PrintProcessor routes trade prints to the configured backend.
type PrintProcessor struct {
	pub     drepo.PrintPublisher
	archive drepo.TradeArchive
	metrics drepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration
}

// NewPrintProcessor creates a new PrintProcessor instance.
func NewPrintProcessor(
	pub drepo.PrintPublisher,
	archive drepo.TradeArchive,
	metrics drepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *PrintProcessor {
	return &PrintProcessor{
		pub:     pub,
		archive: archive,
		metrics: metrics,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
	}
}

// Process routes a single print to the configured backend.
func (p *PrintProcessor) Process(ctx context.Context, pr *models.TradePrint) error {
	if pr == nil {
		return fmt.Errorf("print is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, pr)
	case "clickhouse":
		err = p.archive.Store(ctx, pr)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process print: %w", err)
	}

	p.metrics.RecordPrintStored(p.backend, pr.Identifier)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple prints in a batch.
func (p *PrintProcessor) ProcessBatch(ctx context.Context, prints []*models.TradePrint) error {
	if len(prints) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, prints)
	case "clickhouse":
		err = p.archive.StoreBatch(ctx, prints)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, pr := range prints {
		p.metrics.RecordPrintStored(p.backend, pr.Identifier)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *PrintProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.archive != nil {
		_ = p.archive.Close()
	}
}
