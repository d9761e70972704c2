package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/odds-warehouse-poc/internal/odds-ingest/fetcher"
	"github.com/radieske/odds-warehouse-poc/internal/odds-ingest/publisher"
	"github.com/radieske/odds-warehouse-poc/internal/oddsapi"
	"github.com/radieske/odds-warehouse-poc/internal/shared/config"
	"github.com/radieske/odds-warehouse-poc/internal/shared/logger"
	"github.com/radieske/odds-warehouse-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("odds feed config",
		zap.String("base_url", cfg.OddsAPIBaseURL),
		zap.String("sport", cfg.OddsSport),
		zap.Duration("interval", cfg.FetchInterval),
	)

	// Kafka Publisher
	pub := publisher.NewKafkaPublisher(
		strings.Split(cfg.KafkaBrokers, ","),
		cfg.TopicSnapshotBatches,
		log,
	)
	defer pub.Close()

	// Cliente do feed de odds
	client := oddsapi.NewClient(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, log)

	// Métricas Prometheus para monitoramento da ingestão
	fetches := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_ingest_fetches_total", Help: "buscas no feed"})
	eventsFetched := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_ingest_events_fetched_total", Help: "eventos retornados pelo feed"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_ingest_batches_published_total", Help: "batches publicados no kafka"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "odds_ingest_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(fetches, eventsFetched, published, errorsBy)

	f := &fetcher.Fetcher{
		Log:       log,
		Feed:      client,
		Publisher: pub,
		Sport:     cfg.OddsSport,
		Regions:   cfg.OddsRegions,
		Markets:   cfg.OddsMarkets,
		Interval:  cfg.FetchInterval,
		Source:    cfg.ServiceName,
		OnFetch: func(n int) {
			fetches.Inc()
			eventsFetched.Add(float64(n))
		},
		OnPublished: func() { published.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, nil)
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("odds-ingest started")
	if err := f.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("fetcher stopped with error", zap.Error(err))
	}
	log.Info("odds-ingest stopped")
}
