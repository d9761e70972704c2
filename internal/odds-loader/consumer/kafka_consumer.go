package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/odds-warehouse-poc/internal/odds-loader/cache"
	"github.com/radieske/odds-warehouse-poc/internal/odds-loader/repository"
	"github.com/radieske/odds-warehouse-poc/pkg/contracts/events"
)

// MessageReader abstrai o reader Kafka (satisfeito por *kafka.Reader)
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// DLQWriter recebe as mensagens que o loader não conseguiu decodificar
type DLQWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Loader consome batches de snapshots do Kafka, persiste no warehouse e
// atualiza o cache de odds mais recentes.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Loader struct {
	Log    *zap.Logger
	Reader MessageReader
	Repo   *repository.PostgresRepo
	Cache  *cache.LatestCache
	DLQ    DLQWriter // opcional

	OnConsumed func()       // métricas (counter++)
	OnPersist  func()       // métricas
	OnCached   func()       // métricas
	OnError    func(string) // métricas por fase

	// OnAfterPersist é chamado após persistência bem-sucedida (broadcast WS)
	OnAfterPersist func(events.SnapshotBatch)
}

// Run inicia o loop principal de consumo e persistência dos batches
func (l *Loader) Run(ctx context.Context) error {
	for {
		m, err := l.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			l.Log.Warn("kafka read failed", zap.Error(err))
			if l.OnError != nil {
				l.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if l.OnConsumed != nil {
			l.OnConsumed()
		}

		var batch events.SnapshotBatch
		if err := json.Unmarshal(m.Value, &batch); err != nil {
			l.Log.Warn("invalid message", zap.Error(err))
			if l.OnError != nil {
				l.OnError("decode")
			}
			l.toDLQ(ctx, m)
			continue
		}

		// Carimba o instante de ingestão em todas as linhas do batch.
		// A coluna tem DEFAULT now(), mas o valor explícito mantém o cache
		// em Go e o banco com o mesmo timestamp.
		ingestTs := time.Now().UTC()
		for i := range batch.Snapshots {
			batch.Snapshots[i].IngestTsUTC = ingestTs
		}

		// Dimensões primeiro, por convenção; o banco não exige (sem FKs)
		if err := l.Repo.UpsertEvent(ctx, batch.Event); err != nil {
			l.Log.Warn("event upsert failed", zap.Error(err))
			if l.OnError != nil {
				l.OnError("db_event")
			}
			continue
		}
		if err := l.Repo.UpsertBookmakers(ctx, batch.Bookmakers); err != nil {
			l.Log.Warn("bookmaker upsert failed", zap.Error(err))
			if l.OnError != nil {
				l.OnError("db_bookmaker")
			}
			continue
		}
		if err := l.Repo.InsertSnapshots(ctx, batch.Snapshots); err != nil {
			l.Log.Warn("snapshot insert failed", zap.Error(err))
			if l.OnError != nil {
				l.OnError("db_snapshots")
			}
			continue
		}
		if l.OnPersist != nil {
			l.OnPersist()
		}

		// Atualiza cache de últimas odds; falha de cache não bloqueia o fluxo
		if err := l.Cache.MergeLatest(ctx, batch.Event.EventID, batch.Snapshots); err != nil {
			l.Log.Warn("latest cache merge failed", zap.Error(err))
			if l.OnError != nil {
				l.OnError("cache")
			}
		} else if l.OnCached != nil {
			l.OnCached()
		}

		if l.OnAfterPersist != nil {
			l.OnAfterPersist(batch)
		}
	}
}

// toDLQ reencaminha a mensagem crua para a DLQ, quando configurada
func (l *Loader) toDLQ(ctx context.Context, m kafka.Message) {
	if l.DLQ == nil {
		return
	}
	dlqMsg := kafka.Message{Key: m.Key, Value: m.Value, Time: time.Now()}
	if err := l.DLQ.WriteMessages(ctx, dlqMsg); err != nil {
		l.Log.Warn("dlq write failed", zap.Error(err))
		if l.OnError != nil {
			l.OnError("dlq")
		}
	}
}
