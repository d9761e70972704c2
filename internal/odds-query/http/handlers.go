package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/odds-warehouse-poc/internal/odds-query/cache"
	"github.com/radieske/odds-warehouse-poc/internal/odds-query/dto"
	"github.com/radieske/odds-warehouse-poc/internal/odds-query/repo"
)

// API expõe os endpoints REST de consulta do warehouse de odds
// Utiliza um repositório de leitura (Postgres) e cache (Redis)
type API struct {
	ReadRepo *repo.ReadRepo // acesso ao banco de dados
	Cache    *cache.Cache   // cache de últimas odds
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/events", a.listEvents)                 // Lista eventos esportivos
	r.Get("/v1/bookmakers", a.listBookmakers)         // Lista casas de apostas
	r.Get("/v1/events/{id}/odds", a.getLatestOdds)    // Últimas odds por tupla
	r.Get("/v1/events/{id}/history", a.getOddsHistory) // Série temporal de uma tupla
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// listEvents retorna todos os eventos conhecidos pelo warehouse
func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	ev, err := a.ReadRepo.ListEvents(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// listBookmakers retorna todas as casas de apostas observadas
func (a *API) listBookmakers(w http.ResponseWriter, r *http.Request) {
	bk, err := a.ReadRepo.ListBookmakers(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, bk)
}

// getLatestOdds retorna o snapshot mais recente por tupla, preferencialmente do cache
func (a *API) getLatestOdds(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fromCache []dto.LatestOdd
	if ok, _ := a.Cache.GetLatest(r.Context(), id, &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	od, err := a.ReadRepo.LatestByEvent(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(od) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	_ = a.Cache.SetLatest(r.Context(), id, od, 30*time.Second) // salva no cache por 30s
	writeJSON(w, http.StatusOK, od)
}

// getOddsHistory retorna a série temporal completa de uma tupla
// (bookmaker, market, outcome), exigida via query string
func (a *API) getOddsHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	bookmaker := r.URL.Query().Get("bookmaker")
	market := r.URL.Query().Get("market")
	outcome := r.URL.Query().Get("outcome")
	if bookmaker == "" || market == "" || outcome == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bookmaker, market and outcome are required"})
		return
	}

	hist, err := a.ReadRepo.History(r.Context(), id, bookmaker, market, outcome)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(hist) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, hist)
}
