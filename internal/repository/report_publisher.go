package repository

import (
	"context"
	"time"

	"TrustTrace/internal/domain/models"
	"TrustTrace/internal/domain/repository"
	pkgkafka "TrustTrace/pkg/kafka"
)

// KafkaReportPublisher emits completed investigation reports for downstream
// consumers (alerting, archival, case management).
type KafkaReportPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaReportPublisher(producer *pkgkafka.Producer, topic string) repository.ReportPublisher {
	return &KafkaReportPublisher{producer: producer, topic: topic}
}

func (p *KafkaReportPublisher) PublishReport(ctx context.Context, report *models.InvestigationReport) error {
	key := []byte(string(report.Profile.DebtType))
	msg := map[string]interface{}{
		"published_at": time.Now().UTC(),
		"profile":      report.Profile,
		"summary":      report.Summary,
		"trusts":       report.Trusts,
	}
	return p.producer.Publish(ctx, p.topic, key, msg)
}

func (p *KafkaReportPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
