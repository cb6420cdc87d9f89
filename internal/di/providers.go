package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"TrustTrace/internal/domain/repository"
	domsvc "TrustTrace/internal/domain/service"
	"TrustTrace/internal/handler/api"
	mid "TrustTrace/internal/middleware"
	internalrepo "TrustTrace/internal/repository"
	icache "TrustTrace/internal/service/cache"
	"TrustTrace/internal/service/ratelimit"
	"TrustTrace/internal/services/catalog"
	"TrustTrace/internal/sources"
	"TrustTrace/internal/usecase"
	pkgcache "TrustTrace/pkg/cache"
	pkgch "TrustTrace/pkg/clickhouse"
	"TrustTrace/pkg/config"
	xhttp "TrustTrace/pkg/http"
	pkgkafka "TrustTrace/pkg/kafka"
	applogger "TrustTrace/pkg/logger"
	"TrustTrace/pkg/metrics"
	pkgqueue "TrustTrace/pkg/queue"
	"TrustTrace/pkg/server"

	"github.com/redis/go-redis/v9"
)

const archiveTable = "trade_prints"

// ProvideLogger creates the application logger.
func ProvideLogger() (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
}

// ProvideRateLimiter creates the token-bucket limiter shared by all source
// adapters. Each adapter throttles under its own key.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when an archive backend
// is configured. Returns nil when ClickHouse is not configured.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			ts DateTime64(3),
			identifier String,
			price Float64,
			yield Float64,
			volume Float64,
			source String,
			event_id String,
			seq UInt64
		) ENGINE = ReplacingMergeTree(seq) ORDER BY (identifier, ts, event_id)`, db, archiveTable),
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer. Returns nil when no brokers
// are configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideTradeArchive creates the ClickHouse trade print archive.
func ProvideTradeArchive(chClient *pkgch.Client, cfg *config.Config) repository.TradeArchive {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseArchive(chClient.DB(), cfg.ClickHouse.Database+"."+archiveTable)
}

// ProvidePrintPublisher creates the Kafka print publisher.
func ProvidePrintPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.PrintPublisher {
	if producer == nil || cfg.Kafka.Topic == "" {
		return nil
	}
	return internalrepo.NewKafkaPrintPublisher(producer, cfg.Kafka.Topic)
}

// ProvideReportPublisher creates the Kafka report publisher for finished
// investigation reports.
func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ReportPublisher {
	if producer == nil || cfg.Kafka.ReportsTopic == "" {
		return nil
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.ReportsTopic)
}

// ProvideKafkaConsumer creates the print consumer when the Kafka backend is
// active. The consumer drains the prints topic into the archive.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" || len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaPrintsHandler registers the handler for the prints topic.
func ProvideKafkaPrintsHandler(archive repository.TradeArchive, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaPrintsHandler {
	return usecase.NewKafkaPrintsHandler(cfg.Kafka.Topic, archive, metrics)
}

// ProvideTradeFeed creates the realtime trade print feed.
func ProvideTradeFeed(cfg *config.Config) repository.TradeFeed {
	if !cfg.TradeFeed.Enabled {
		return nil
	}
	return sources.NewFeedClient(
		cfg.TradeFeed.APIKey,
		cfg.TradeFeed.WebSocketURL,
		cfg.TradeFeed.Identifiers,
		cfg.TradeFeed.ReconnectDelay,
		cfg.TradeFeed.PingInterval,
	)
}

// ProvidePrintProcessor creates the print routing use case.
func ProvidePrintProcessor(
	pub repository.PrintPublisher,
	archive repository.TradeArchive,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.PrintProcessor {
	return usecase.NewPrintProcessor(
		pub,
		archive,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvidePrintCollector creates the print collector use case.
func ProvidePrintCollector(
	feed repository.TradeFeed,
	processor *usecase.PrintProcessor,
	metrics repository.Metrics,
) *usecase.PrintCollector {
	if feed == nil {
		return nil
	}
	// Build middleware pipeline between WebSocket and the backend
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewPrintCollector(feed, processor, metrics, pipe)
}

// ProvideFilingSource creates the EDGAR full-text filing adapter.
func ProvideFilingSource(cfg *config.Config, limiter *ratelimit.Limiter) domsvc.FilingSource {
	return sources.NewEDGARFilingSource(cfg.Sources.Filings, limiter)
}

// ProvideIdentifierSource creates the OpenFIGI identifier adapter.
func ProvideIdentifierSource(cfg *config.Config, limiter *ratelimit.Limiter) domsvc.IdentifierSource {
	return sources.NewFIGIIdentifierSource(cfg.Sources.Identifiers, limiter)
}

// ProvideRegistrantSource creates the EDGAR submissions adapter.
func ProvideRegistrantSource(cfg *config.Config, limiter *ratelimit.Limiter) domsvc.RegistrantSource {
	return sources.NewEDGARRegistrantSource(cfg.Sources.Registrants, limiter)
}

// ProvideComplaintSource creates the CFPB complaint database adapter.
func ProvideComplaintSource(cfg *config.Config, limiter *ratelimit.Limiter) domsvc.ComplaintSource {
	return sources.NewCFPBComplaintSource(cfg.Sources.Complaints, limiter)
}

// ProvideEconomicSource creates the FRED economic series adapter.
func ProvideEconomicSource(cfg *config.Config, limiter *ratelimit.Limiter) domsvc.EconomicSource {
	return sources.NewFREDEconomicSource(cfg.Sources.Economic, limiter)
}

// ProvideTradeSource creates the trade reporting adapter, layered over the
// archive so investigations survive an upstream outage.
func ProvideTradeSource(cfg *config.Config, limiter *ratelimit.Limiter, archive repository.TradeArchive) domsvc.TradeSource {
	primary := sources.NewHTTPTradeSource(cfg.Sources.Trades, limiter)
	if archive == nil {
		return primary
	}
	return sources.NewArchiveTradeSource(primary, archive)
}

// ProvideGenerator creates the offline trust candidate generator.
func ProvideGenerator() *catalog.Generator {
	return catalog.New()
}

// ProvideRegistrantCache creates the shared cache for registrant lookups.
// Falls back to an in-process cache when Redis is unavailable.
func ProvideRegistrantCache(cfg *config.Config, lgr *applogger.Logger) pkgcache.Service {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache()
	}
	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		host, portStr = cfg.Cache.Redis.Addr, "6379"
	}
	port, _ := strconv.Atoi(portStr)
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix("trusttrace"),
	)
	if err != nil {
		lgr.Warn("redis cache unavailable, using memory cache", applogger.Error(err))
		return pkgcache.NewMemoryCache()
	}
	// memory in front of redis so hot registrants skip the round trip
	return pkgcache.NewLayeredCache(rc)
}

// ProvideSummaryCache creates the HTTP-layer cache for trading summaries.
func ProvideSummaryCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideInvestigator creates the multi-source investigator use case.
func ProvideInvestigator(
	filings domsvc.FilingSource,
	identifiers domsvc.IdentifierSource,
	registrants domsvc.RegistrantSource,
	complaints domsvc.ComplaintSource,
	economy domsvc.EconomicSource,
	trades domsvc.TradeSource,
	generator *catalog.Generator,
	regCache pkgcache.Service,
	lgr *applogger.Logger,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.Investigator {
	opts := []usecase.InvestigatorOption{usecase.WithRegistrantCache(regCache, cfg.Investigator.RegistrantTTL)}
	if cfg.Investigator.CallTimeout > 0 {
		opts = append(opts, usecase.WithCallTimeout(cfg.Investigator.CallTimeout))
	}
	if cfg.Investigator.MaxQueries > 0 {
		opts = append(opts, usecase.WithQueryFanout(cfg.Investigator.MaxQueries, cfg.Investigator.QuickMaxQueries))
	}
	return usecase.NewInvestigator(filings, identifiers, registrants, complaints, economy, trades, generator, lgr, m, opts...)
}

// ProvideQueue creates the Redis-backed async investigation queue. Returns
// nil when the queue is disabled.
func ProvideQueue(
	lgr *applogger.Logger,
	inv *usecase.Investigator,
	reports repository.ReportPublisher,
	cfg *config.Config,
) *pkgqueue.RedisQueue {
	if !cfg.Queue.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Queue.Addr})
	var opts []pkgqueue.RedisQueueOption
	if cfg.Queue.Name != "" {
		opts = append(opts, pkgqueue.WithKeyPrefix(cfg.Queue.Name))
	}
	q := pkgqueue.NewRedisQueue(lgr, &pkgqueue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		QueueSize:  128,
		RetryLimit: 3,
		RetryDelay: 5 * time.Second,
	}, client, pkgqueue.ModeProducerConsumer, opts...)
	q.RegisterJob(usecase.NewInvestigateJob(inv, reports, lgr))
	return q
}

// ProvideHTTPHandler creates the Echo handler exposing the investigation API.
func ProvideHTTPHandler(
	lgr *applogger.Logger,
	inv *usecase.Investigator,
	trades domsvc.TradeSource,
	archive repository.TradeArchive,
	reports repository.ReportPublisher,
	queue *pkgqueue.RedisQueue,
	summaryCache icache.BytesCache,
) xhttp.Handler {
	h := api.NewInvestigateEchoHandler(lgr, inv, trades)
	h.SetArchive(archive)
	h.SetReportPublisher(reports)
	h.SetCache(summaryCache)
	if queue != nil {
		h.SetQueue(queue)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.PrintCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaPrintsHandler,
	chClient *pkgch.Client,
	queue *pkgqueue.RedisQueue,
	handler xhttp.Handler,
) *server.App {
	// Attach hook to consumer: example NoopHook for now; can be replaced via config
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	app.SetQueue(queue)
	// attach print processor to app for closing resources via collector
	if collector != nil {
		app.PrintProc = collector.Processor()
	}
	return app
}
