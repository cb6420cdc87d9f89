package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TrustTrace/internal/domain/models"
	domrepo "TrustTrace/internal/domain/repository"
	pkgkafka "TrustTrace/pkg/kafka"
)

// KafkaPrintsHandler consumes print messages from Kafka and writes them to
// the trade archive.
type KafkaPrintsHandler struct {
	topic   string
	archive domrepo.TradeArchive
	metrics domrepo.Metrics
}

func NewKafkaPrintsHandler(topic string, archive domrepo.TradeArchive, metrics domrepo.Metrics) *KafkaPrintsHandler {
	return &KafkaPrintsHandler{topic: topic, archive: archive, metrics: metrics}
}

func (h *KafkaPrintsHandler) Topic() string { return h.topic }

// incoming message schema: {id, t, p, y, v}
func (h *KafkaPrintsHandler) Handle(ctx context.Context, b []byte) error {
	if h.archive == nil {
		return fmt.Errorf("trade archive not configured")
	}
	var m struct {
		ID string  `json:"id"`
		T  int64   `json:"t"`
		P  float64 `json:"p"`
		Y  float64 `json:"y"`
		V  float64 `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	// E2E latency from event time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	start := time.Now()
	err := h.archive.Store(ctx, &models.TradePrint{
		Identifier: m.ID,
		Timestamp:  m.T,
		Price:      m.P,
		Yield:      m.Y,
		Volume:     m.V,
	})
	h.metrics.RecordLatency("archive_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordPrintStored("clickhouse", m.ID)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaPrintsHandler)(nil)
