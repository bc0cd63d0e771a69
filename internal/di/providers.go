package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"SentinelShield/internal/domain/repository"
	"SentinelShield/internal/handler/api"
	mid "SentinelShield/internal/middleware"
	internalrepo "SentinelShield/internal/repository"
	"SentinelShield/internal/service/quote"
	"SentinelShield/internal/services/feed"
	"SentinelShield/internal/services/ml"
	"SentinelShield/internal/services/risk"
	"SentinelShield/internal/services/signals"
	"SentinelShield/internal/services/threat"
	"SentinelShield/internal/services/trust"
	"SentinelShield/internal/usecase"
	pkgcache "SentinelShield/pkg/cache"
	pkgch "SentinelShield/pkg/clickhouse"
	"SentinelShield/pkg/config"
	xhttp "SentinelShield/pkg/http"
	pkgkafka "SentinelShield/pkg/kafka"
	applogger "SentinelShield/pkg/logger"
	"SentinelShield/pkg/metrics"
	"SentinelShield/pkg/server"
)

const evaluationCacheTTL = 30 * time.Second

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideLedger creates the in-process alert store.
func ProvideLedger() repository.Ledger {
	return internalrepo.NewAlertLedger()
}

// ProvideMarketFeed picks the quote source: the TwelveData client when an
// API key is configured, the seeded synthetic generator otherwise.
func ProvideMarketFeed(cfg *config.Config, l *applogger.Logger) (repository.MarketFeed, error) {
	if cfg.Quote.Provider != "twelvedata" || cfg.Quote.APIKey == "" {
		feedCfg := feed.DefaultConfig()
		if cfg.Feed.Seed != 0 {
			feedCfg.Seed = cfg.Feed.Seed
		}
		if cfg.Feed.BasePrice > 0 {
			feedCfg.BasePrice = cfg.Feed.BasePrice
		}
		if cfg.Feed.BaseVolume > 0 {
			feedCfg.BaseVolume = cfg.Feed.BaseVolume
		}
		if cfg.Feed.SpikeChance > 0 {
			feedCfg.SpikeChance = cfg.Feed.SpikeChance
		}
		if cfg.Feed.SpikeMultiplier > 1 {
			feedCfg.SpikeMultiplier = cfg.Feed.SpikeMultiplier
		}
		return feed.NewSyntheticMarket(feedCfg), nil
	}

	opts := []quote.ClientOption{quote.WithLogger(l)}
	if cfg.Quote.BaseURL != "" {
		opts = append(opts, quote.WithBaseURL(cfg.Quote.BaseURL))
	}
	if cfg.Quote.Timeout > 0 {
		opts = append(opts, quote.WithTimeout(cfg.Quote.Timeout))
	}
	if rl := cfg.Quote.RateLimit; rl.RequestsPerMinute > 0 {
		opts = append(opts, quote.WithRateLimit(rl.RequestsPerMinute, rl.Burst))
	}
	if cfg.Quote.Cache.Enabled {
		svc, err := buildQuoteCache(cfg)
		if err != nil {
			return nil, fmt.Errorf("quote cache: %w", err)
		}
		opts = append(opts, quote.WithCache(svc, cfg.Quote.Cache.TTL))
	}
	return quote.NewClient(cfg.Quote.APIKey, opts...), nil
}

func buildQuoteCache(cfg *config.Config) (pkgcache.Service, error) {
	rc := cfg.Quote.Cache.Redis
	if !rc.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}

	host, portStr, err := net.SplitHostPort(rc.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr %q: %w", rc.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port %q: %w", portStr, err)
	}

	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(rc.Password),
		pkgcache.WithRedisDB(rc.DB),
	)
	if err != nil {
		return nil, err
	}
	return pkgcache.NewLayeredCache(redisCache), nil
}

// ProvideSocialBuffer creates the social signal store. Broker-fed signals
// are merged with the seeded synthetic feed so evaluations always have
// social context in demos.
func ProvideSocialBuffer(cfg *config.Config) *internalrepo.SocialBuffer {
	seed := cfg.Feed.Seed
	if seed == 0 {
		seed = 1
	}
	return internalrepo.NewSocialBuffer(feed.NewSyntheticSocial(seed))
}

// ProvideEvaluator assembles the scoring stages from config.
func ProvideEvaluator(cfg *config.Config) *usecase.Evaluator {
	var extractorOpts []signals.Option
	a := cfg.Analytics
	if a.EWMASpan > 0 {
		extractorOpts = append(extractorOpts, signals.WithEWMASpan(a.EWMASpan))
	}
	if a.VolumeWindow > 0 {
		extractorOpts = append(extractorOpts, signals.WithVolumeWindow(a.VolumeWindow))
	}
	if a.MomentumShort > 0 && a.MomentumLong > 0 {
		extractorOpts = append(extractorOpts, signals.WithMomentumWindows(a.MomentumShort, a.MomentumLong))
	}

	var detectorOpts []ml.DetectorOption
	if m := a.ML; m.Trees > 0 && m.SubsampleSize > 0 {
		detectorOpts = append(detectorOpts, ml.WithForestParams(m.Trees, m.SubsampleSize, m.Contamination, m.Seed))
	}
	if m := a.ML; m.MinSamples > 0 || m.TrainWindow > 0 {
		detectorOpts = append(detectorOpts, ml.WithHistoryWindow(m.MinSamples, m.TrainWindow))
	}

	return usecase.NewEvaluator(
		signals.NewExtractor(extractorOpts...),
		ml.NewDetector(detectorOpts...),
		risk.NewClassifier(),
		trust.NewScorer(cfg.Trust.Registry),
		usecase.WithEvaluationCache(evaluationCacheTTL),
	)
}

// ProvidePublisher creates the broker fan-out for recorded alerts. A noop
// publisher is used unless the kafka backend is configured.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if cfg.Backend.Type != "kafka" {
		return internalrepo.NoopPublisher{}, nil
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
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertTopic), nil
}

// ProvideArchive creates the long-term alert store when the clickhouse
// backend is configured; nil otherwise.
func ProvideArchive(cfg *config.Config, l *applogger.Logger) (repository.Archive, error) {
	if cfg.Backend.Type != "clickhouse" {
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

	archive := internalrepo.NewClickHouseArchive(client, l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		_ = archive.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return archive, nil
}

// ProvideAlertPipeline builds the throttling buffer between the scoring
// loop and external sinks. Nil when no backend is configured, so the
// monitor skips fan-out entirely.
func ProvideAlertPipeline(
	cfg *config.Config,
	pub repository.Publisher,
	archive repository.Archive,
	m repository.Metrics,
) *mid.AlertPipeline {
	if cfg.Backend.Type == "none" {
		return nil
	}
	sink := internalrepo.NewFanoutSink(pub, archive)
	return mid.NewAlertPipeline(sink, m,
		mid.WithBufferSize(1000),
	)
}

// ProvideKafkaConsumer creates the social topic consumer when the kafka
// backend is configured.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" || cfg.Kafka.SocialTopic == "" {
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

// ProvideSocialHandler registers the handler for the social signal topic.
func ProvideSocialHandler(cfg *config.Config, buffer *internalrepo.SocialBuffer, m repository.Metrics) *usecase.KafkaSocialHandler {
	return usecase.NewKafkaSocialHandler(cfg.Kafka.SocialTopic, buffer, m)
}

// ProvideMonitor creates the polling monitor over the configured symbols.
func ProvideMonitor(
	cfg *config.Config,
	market repository.MarketFeed,
	buffer *internalrepo.SocialBuffer,
	evaluator *usecase.Evaluator,
	ledger repository.Ledger,
	pipeline *mid.AlertPipeline,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Monitor {
	return usecase.NewMonitor(
		market,
		buffer,
		evaluator,
		ledger,
		pipeline,
		m,
		l,
		cfg.Monitor.Symbols,
		cfg.Quote.Interval,
		cfg.Monitor.WindowSize,
		cfg.Monitor.PollInterval,
	)
}

// ProvideAlertService creates the ledger query service.
func ProvideAlertService(ledger repository.Ledger) *usecase.AlertService {
	return usecase.NewAlertService(ledger)
}

// ProvideThreatService creates the threat aggregation service.
func ProvideThreatService(ledger repository.Ledger, m repository.Metrics) *usecase.ThreatService {
	return usecase.NewThreatService(threat.NewAggregator(ledger), m)
}

// ProvideHandlers builds the HTTP surface: the REST endpoints and the
// websocket alert stream.
func ProvideHandlers(
	l *applogger.Logger,
	monitor *usecase.Monitor,
	alerts *usecase.AlertService,
	threatSvc *usecase.ThreatService,
	market repository.MarketFeed,
	ledger repository.Ledger,
	archive repository.Archive,
) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewMonitorHandler(l, monitor, alerts, threatSvc, market, ledger, archive),
		api.NewStreamHandler(l, ledger),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	monitor *usecase.Monitor,
	consumer *pkgkafka.Consumer,
	sh *usecase.KafkaSocialHandler,
	pub repository.Publisher,
	archive repository.Archive,
	handlers []xhttp.Handler,
) *server.App {
	return server.New(cfg, l, monitor, consumer, sh, pub, archive, handlers)
}
