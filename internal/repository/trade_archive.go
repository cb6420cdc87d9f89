package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"TrustTrace/internal/domain/models"
	"TrustTrace/internal/domain/repository"
	pkgkafka "TrustTrace/pkg/kafka"
)

// ClickHouseArchive implements TradeArchive for ClickHouse.
type ClickHouseArchive struct {
	db    *sql.DB
	table string
}

// NewClickHouseArchive creates a ClickHouse trade archive.
func NewClickHouseArchive(db *sql.DB, table string) repository.TradeArchive {
	return &ClickHouseArchive{db: db, table: table}
}

func (a *ClickHouseArchive) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (a *ClickHouseArchive) Store(ctx context.Context, p *models.TradePrint) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, identifier, price, yield, volume, source, event_id, seq) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", a.table)
	// Idempotency placeholders: event_id and seq derived from identifier+timestamp
	eventID := fmt.Sprintf("%s-%d", p.Identifier, p.Timestamp)
	seq := uint64(p.Timestamp)
	_, err := a.db.ExecContext(ctx, q,
		time.Unix(p.Timestamp, 0),
		p.Identifier,
		p.Price,
		p.Yield,
		p.Volume,
		"tradefeed",
		eventID,
		seq,
	)
	return err
}

func (a *ClickHouseArchive) StoreBatch(ctx context.Context, prints []*models.TradePrint) error {
	if len(prints) == 0 {
		return nil
	}
	// Multi-row VALUES to reduce round-trips, 2000 rows per chunk.
	const chunkSize = 2000
	for start := 0; start < len(prints); start += chunkSize {
		end := start + chunkSize
		if end > len(prints) {
			end = len(prints)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, p := range prints[start:end] {
			if p == nil || p.Identifier == "" || p.Timestamp == 0 {
				continue
			}
			eventID := fmt.Sprintf("%s-%d", p.Identifier, p.Timestamp)
			seq := uint64(p.Timestamp)
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				time.Unix(p.Timestamp, 0),
				p.Identifier,
				p.Price,
				p.Yield,
				p.Volume,
				"tradefeed",
				eventID,
				seq,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, identifier, price, yield, volume, source, event_id, seq) VALUES %s", a.table, strings.Join(values, ","))
		if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// Query reads archived prints back as provider-shaped trade records so the
// aggregator treats both paths identically.
func (a *ClickHouseArchive) Query(ctx context.Context, identifier string, from, to time.Time, limit int) ([]models.Trade, error) {
	q := fmt.Sprintf("SELECT identifier, ts, price, yield, volume FROM %s WHERE identifier = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?", a.table)
	rows, err := a.db.QueryContext(ctx, q, identifier, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var (
			id     string
			ts     time.Time
			price  float64
			yield  float64
			volume float64
		)
		if err := rows.Scan(&id, &ts, &price, &yield, &volume); err != nil {
			return nil, err
		}
		trades = append(trades, models.Trade{
			Date:       ts.Format("2006-01-02"),
			Time:       ts.Format("15:04:05"),
			Price:      strconv.FormatFloat(price, 'f', -1, 64),
			Yield:      strconv.FormatFloat(yield, 'f', -1, 64),
			Volume:     volume,
			ReportType: "archive",
			Identifier: id,
		})
	}
	return trades, rows.Err()
}

func (a *ClickHouseArchive) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *ClickHouseArchive) Close() error {
	return nil // Managed by pkg
}

// KafkaPrintPublisher implements PrintPublisher for Kafka.
type KafkaPrintPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPrintPublisher creates a Kafka print publisher.
func NewKafkaPrintPublisher(producer *pkgkafka.Producer, topic string) repository.PrintPublisher {
	return &KafkaPrintPublisher{producer: producer, topic: topic}
}

func (p *KafkaPrintPublisher) Publish(ctx context.Context, pr *models.TradePrint) error {
	return p.producer.Publish(ctx, p.topic, []byte(pr.Identifier), printMessage(pr))
}

func (p *KafkaPrintPublisher) PublishBatch(ctx context.Context, prints []*models.TradePrint) error {
	if len(prints) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(prints))
	for i, pr := range prints {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(pr.Identifier),
			Value: printMessage(pr),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPrintPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// printMessage matches the consumer schema: {id, t, p, y, v}.
func printMessage(pr *models.TradePrint) map[string]interface{} {
	return map[string]interface{}{
		"id": pr.Identifier,
		"t":  pr.Timestamp,
		"p":  pr.Price,
		"y":  pr.Yield,
		"v":  pr.Volume,
	}
}
