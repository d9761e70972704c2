package topics

const (
	// Lotes de snapshots achatados publicados pelo ingest
	OddsSnapshotBatches = "odds_snapshot_batches"

	// DLQ para mensagens que o loader não conseguiu decodificar
	OddsSnapshotBatchesDLQ = "odds_snapshot_batches_dlq"
)
