package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/odds-warehouse-poc/pkg/contracts/events"

	"github.com/radieske/odds-warehouse-poc/internal/odds-loader/cache"
	"github.com/radieske/odds-warehouse-poc/internal/odds-loader/consumer"
	"github.com/radieske/odds-warehouse-poc/internal/odds-loader/pubsub"
	"github.com/radieske/odds-warehouse-poc/internal/odds-loader/repository"
	sharedcache "github.com/radieske/odds-warehouse-poc/internal/shared/cache"
	"github.com/radieske/odds-warehouse-poc/internal/shared/config"
	"github.com/radieske/odds-warehouse-poc/internal/shared/db"
	sharedkafka "github.com/radieske/odds-warehouse-poc/internal/shared/kafka"
	"github.com/radieske/odds-warehouse-poc/internal/shared/logger"
	"github.com/radieske/odds-warehouse-poc/internal/shared/metrics"
	"github.com/radieske/odds-warehouse-poc/internal/warehouse/schema"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Aplica o schema do warehouse (idempotente)
	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer schemaCancel()
	if err := schema.Ensure(schemaCtx, pg); err != nil {
		log.Fatal("schema ensure", zap.Error(err))
	}
	log.Info("warehouse schema ready")

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Instancia cache de últimas odds e repositório Postgres
	ttl := 5 * time.Minute
	latest := cache.NewLatestCache(redisClient, ttl)
	repo := repository.NewPostgresRepo(pg)

	// Consumer Kafka (consumer group odds-loader) e writer da DLQ
	reader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicSnapshotBatches, "odds-loader")
	defer reader.Close()

	dlq := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSnapshotBatchesDLQ)
	defer dlq.Close()

	// Métricas Prometheus para monitoramento do carregamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_loader_messages_consumed_total", Help: "mensagens consumidas"})
	persisted := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_loader_batches_persisted_total", Help: "batches persistidos (dims+fatos)"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_loader_cache_merges_total", Help: "merges no cache de últimas odds"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "odds_loader_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persisted, cached, errorsBy)

	// Broadcaster para publicar lotes persistidos no Redis Pub/Sub (usado pelo odds-query/ws)
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	loader := &consumer.Loader{
		Log:        log,
		Reader:     reader,
		Repo:       repo,
		Cache:      latest,
		DLQ:        dlq,
		OnConsumed: func() { consumed.Inc() },
		OnPersist:  func() { persisted.Inc() },
		OnCached:   func() { cached.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após persistir, envia o lote para o WebSocket via Redis Pub/Sub
		OnAfterPersist: func(b events.SnapshotBatch) {
			msg := pubsub.WSUpdate{EventID: b.Event.EventID, Payload: b.Snapshots}
			payload, _ := json.Marshal(msg)

			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := broadcaster.Publish(ctx, pubsub.ChannelSnapshotBroadcast, payload); err != nil {
				log.Warn("ws broadcast publish failed", zap.Error(err))
			}
		},
	}

	// Servidor HTTP para métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("odds-loader started")
	if err := loader.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("loader stopped with error", zap.Error(err))
	}
	log.Info("odds-loader stopped")
}
