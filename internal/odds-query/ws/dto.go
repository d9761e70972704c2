package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// EventID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type    string `json:"type"`    // subscribe | unsubscribe | ping
	EventID string `json:"eventId"` // requerido em subscribe/unsubscribe
}

// SnapshotUpdate representa um lote de snapshots recém-persistido,
// repassado aos clientes WebSocket inscritos no evento
type SnapshotUpdate struct {
	EventID string      `json:"eventId"`
	Payload interface{} `json:"payload"`
}
