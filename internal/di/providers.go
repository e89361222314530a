package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"AlphaPulse/internal/domain/repository"
	domsvc "AlphaPulse/internal/domain/service"
	"AlphaPulse/internal/handler/api"
	mid "AlphaPulse/internal/middleware"
	internalrepo "AlphaPulse/internal/repository"
	icache "AlphaPulse/internal/service/cache"
	"AlphaPulse/internal/service/finnhub"
	"AlphaPulse/internal/service/quotes"
	"AlphaPulse/internal/service/ratelimit"
	"AlphaPulse/internal/service/scorecache"
	"AlphaPulse/internal/services/biases"
	"AlphaPulse/internal/services/signals"
	"AlphaPulse/internal/usecase"
	"AlphaPulse/pkg/cache"
	pkgch "AlphaPulse/pkg/clickhouse"
	"AlphaPulse/pkg/config"
	xhttp "AlphaPulse/pkg/http"
	pkgkafka "AlphaPulse/pkg/kafka"
	"AlphaPulse/pkg/logger"
	"AlphaPulse/pkg/metrics"
	"AlphaPulse/pkg/postgres"
	"AlphaPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return logger.New(&logger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvidePostgresClient creates the read-only portfolio database client.
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := postgres.NewClient(ctx,
		postgres.WithHost(cfg.Postgres.Host),
		postgres.WithPort(cfg.Postgres.Port),
		postgres.WithDatabase(cfg.Postgres.Database),
		postgres.WithCredentials(cfg.Postgres.User, cfg.Postgres.Password),
		postgres.WithSSLMode(cfg.Postgres.SSLMode),
		postgres.WithPoolSize(cfg.Postgres.MaxConns, cfg.Postgres.MinConns),
		postgres.WithDialTimeout(cfg.Postgres.DialTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres client: %w", err)
	}
	return client, nil
}

// ProvideSharedCache creates the Redis-backed shared cache. Without a
// Redis address it degrades to an in-process cache, which is only
// suitable for single-instance development runs.
func ProvideSharedCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryCache(), nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
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

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
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

// ProvideAlphaStore creates the ClickHouse bias/signal store.
func ProvideAlphaStore(chClient *pkgch.Client) *internalrepo.ClickHouseAlphaStore {
	return internalrepo.NewClickHouseAlphaStore(chClient.DB())
}

// ProvideBiasStore exposes the alpha store as BiasStore.
func ProvideBiasStore(store *internalrepo.ClickHouseAlphaStore) repository.BiasStore {
	return store
}

// ProvideSignalStore exposes the alpha store as SignalStore.
func ProvideSignalStore(store *internalrepo.ClickHouseAlphaStore) repository.SignalStore {
	return store
}

// ProvidePortfolioStores creates the Postgres-backed portfolio reader.
func ProvidePortfolioStores(pg *postgres.Client) *internalrepo.PostgresPortfolioStore {
	return internalrepo.NewPostgresPortfolioStore(pg.Pool())
}

// ProvidePortfolioStore exposes the Postgres store as PortfolioStore.
func ProvidePortfolioStore(store *internalrepo.PostgresPortfolioStore) repository.PortfolioStore {
	return store
}

// ProvideSettingsStore exposes the Postgres store as SettingsStore.
func ProvideSettingsStore(store *internalrepo.PostgresPortfolioStore) repository.SettingsStore {
	return store
}

// ProvideEventPublisher creates the Kafka event publisher.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.BiasTopic, cfg.Kafka.SignalTopic)
}

// ProvideScoreCache creates the score cache over the shared cache.
func ProvideScoreCache(shared cache.Service) domsvc.ScoreCache {
	return scorecache.New(shared)
}

// ProvideLiveCache creates the in-process live quote cache.
func ProvideLiveCache() *icache.TTLCache {
	return icache.NewTTLCache()
}

// ProvideQuoteService creates the tiered quote provider.
func ProvideQuoteService(
	live *icache.TTLCache,
	shared cache.Service,
	cfg *config.Config,
	m repository.Metrics,
	log *logger.Logger,
) *quotes.Service {
	rest := finnhub.NewRestClient(cfg.Finnhub.APIKey, cfg.Finnhub.BaseURL,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Finnhub.RequestTimeout)))
	return quotes.New(live, shared, rest, m, log, cfg.Alpha.QuoteTTL)
}

// ProvideQuoteProvider exposes the quote service as QuoteProvider.
func ProvideQuoteProvider(svc *quotes.Service) domsvc.QuoteProvider {
	return svc
}

// ProvideFinnhubStream creates the Finnhub WebSocket stream.
func ProvideFinnhubStream(cfg *config.Config) repository.MarketStream {
	return finnhub.NewStream(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Finnhub.Symbols,
		cfg.Finnhub.ReconnectDelay,
		cfg.Finnhub.PingInterval,
	)
}

// ProvideQuoteCollector creates the live quote collector with its pipeline.
func ProvideQuoteCollector(
	stream repository.MarketStream,
	svc *quotes.Service,
	m repository.Metrics,
) *usecase.QuoteCollector {
	pipe := mid.NewQuotePipeline(svc, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewQuoteCollector(stream, pipe, m)
}

// ProvideDetectors creates the ordered detector set.
func ProvideDetectors() []domsvc.BiasDetector {
	return []domsvc.BiasDetector{
		biases.NewLossAversion(),
		biases.NewConfirmation(),
		biases.NewOverconfidence(),
		biases.NewAnchoring(),
		biases.NewHerding(),
	}
}

// ProvideSignalModel creates the momentum signal model.
func ProvideSignalModel() domsvc.SignalModel {
	return signals.NewMomentum()
}

// ProvideScoreParams derives composition tunables from config.
func ProvideScoreParams(cfg *config.Config) usecase.ScoreParams {
	params := usecase.DefaultScoreParams()
	params.CacheTTL = cfg.ScoreTTLOrDefault()
	if cfg.Alpha.RecentBiases > 0 {
		params.RecentBiases = cfg.Alpha.RecentBiases
	}
	if cfg.Alpha.RecentSignals > 0 {
		params.RecentSignals = cfg.Alpha.RecentSignals
	}
	if cfg.Alpha.LookbackWindow > 0 {
		params.RecencyWindow = cfg.Alpha.LookbackWindow
	}
	return params
}

// ProvideValuation creates the valuation aggregator.
func ProvideValuation(
	portfolio repository.PortfolioStore,
	quoteProvider domsvc.QuoteProvider,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.ValuationAggregator {
	return usecase.NewValuationAggregator(portfolio, quoteProvider, m, log)
}

// ProvideBiasPipeline creates the bias detection pipeline.
func ProvideBiasPipeline(
	valuation *usecase.ValuationAggregator,
	detectors []domsvc.BiasDetector,
	store repository.BiasStore,
	events repository.EventPublisher,
	scoreCache domsvc.ScoreCache,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.BiasPipeline {
	return usecase.NewBiasPipeline(valuation, detectors, store, events, scoreCache, m, log)
}

// ProvideSignalGenerator creates the signal generator.
func ProvideSignalGenerator(
	portfolio repository.PortfolioStore,
	settings repository.SettingsStore,
	quoteProvider domsvc.QuoteProvider,
	model domsvc.SignalModel,
	store repository.SignalStore,
	events repository.EventPublisher,
	scoreCache domsvc.ScoreCache,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.SignalGenerator {
	return usecase.NewSignalGenerator(portfolio, settings, quoteProvider, model, store, events, scoreCache, m, log)
}

// ProvideScoreComposer creates the score composer.
func ProvideScoreComposer(
	valuation *usecase.ValuationAggregator,
	biasStore repository.BiasStore,
	signalStore repository.SignalStore,
	scoreCache domsvc.ScoreCache,
	m repository.Metrics,
	log *logger.Logger,
	params usecase.ScoreParams,
) *usecase.ScoreComposer {
	return usecase.NewScoreComposer(valuation, biasStore, signalStore, scoreCache, m, log, params)
}

// ProvideInsights creates the insights aggregator.
func ProvideInsights(
	composer *usecase.ScoreComposer,
	biasStore repository.BiasStore,
	signalStore repository.SignalStore,
	params usecase.ScoreParams,
) *usecase.InsightsAggregator {
	return usecase.NewInsightsAggregator(composer, biasStore, signalStore, params)
}

// ProvidePortfolioEventsHandler registers the cache-invalidation handler.
func ProvidePortfolioEventsHandler(
	cfg *config.Config,
	scoreCache domsvc.ScoreCache,
	m repository.Metrics,
	log *logger.Logger,
) pkgkafka.MessageHandler {
	return usecase.NewPortfolioEventsHandler(cfg.Kafka.Consumer.Topic, scoreCache, m, log)
}

// ProvideRateLimiter creates the per-user token bucket limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideHTTPHandler creates the alpha HTTP surface.
func ProvideHTTPHandler(
	log *logger.Logger,
	composer *usecase.ScoreComposer,
	pipeline *usecase.BiasPipeline,
	generator *usecase.SignalGenerator,
	insights *usecase.InsightsAggregator,
	biasStore repository.BiasStore,
	signalStore repository.SignalStore,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewAlphaEchoHandler(
		log, composer, pipeline, generator, insights,
		biasStore, signalStore, limiter,
		cfg.Alpha.WriteRateLimit.Requests, cfg.Alpha.WriteRateLimit.Window,
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	handler pkgkafka.MessageHandler,
	events repository.EventPublisher,
	chClient *pkgch.Client,
	pgClient *postgres.Client,
	httpHandler xhttp.Handler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, log, collector, consumer, handler, events, chClient, pgClient, httpHandler)
}
