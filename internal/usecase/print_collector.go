package usecase

import (
	"context"

	"TrustTrace/internal/domain/models"
	drepo "TrustTrace/internal/domain/repository"
	mid "TrustTrace/internal/middleware"
)

// PrintCollector collects trade prints from the realtime feed and processes them.
type PrintCollector struct {
	feed    drepo.TradeFeed
	proc    *PrintProcessor
	metrics drepo.Metrics
	pipe    *mid.RealtimePipeline
}

// NewPrintCollector creates a new PrintCollector instance.
func NewPrintCollector(feed drepo.TradeFeed, proc *PrintProcessor, metrics drepo.Metrics, pipe *mid.RealtimePipeline) *PrintCollector {
	return &PrintCollector{feed: feed, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the trade feed is connected.
func (c *PrintCollector) IsConnected() bool {
	return c.feed.IsConnected()
}

func (c *PrintCollector) Start(ctx context.Context) error {
	if err := c.feed.Connect(ctx); err != nil {
		return err
	}
	if err := c.feed.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	prCh, errCh := c.feed.Read(ctx)
	go c.consume(ctx, prCh, errCh)
	return nil
}

func (c *PrintCollector) consume(ctx context.Context, prCh <-chan *models.TradePrint, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("feed")
				_ = c.feed.Reconnect(ctx)
			}
		case p := <-prCh:
			if p == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, p)
			} else {
				_ = c.proc.Process(ctx, p)
			}
		}
	}
}

func (c *PrintCollector) Stop() error { return c.feed.Close() }

// Processor returns the underlying PrintProcessor for lifecycle management.
func (c *PrintCollector) Processor() *PrintProcessor { return c.proc }

// Shutdown stops the pipeline and closes the feed.
func (c *PrintCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.feed.Close()
}
