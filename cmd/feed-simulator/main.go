package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/odds-warehouse-poc/internal/oddsapi"
	"github.com/radieske/odds-warehouse-poc/internal/shared/config"
	"github.com/radieske/odds-warehouse-poc/internal/shared/logger"
	"github.com/radieske/odds-warehouse-poc/internal/shared/metrics"
)

// Catálogo fixo de partidas simuladas para geração de odds
var eventCatalog = []oddsapi.APIEvent{
	{ID: "sim0001", SportKey: "americanfootball_nfl", SportTitle: "NFL", HomeTeam: "Kansas City Chiefs", AwayTeam: "Buffalo Bills"},
	{ID: "sim0002", SportKey: "americanfootball_nfl", SportTitle: "NFL", HomeTeam: "Philadelphia Eagles", AwayTeam: "Dallas Cowboys"},
	{ID: "sim0003", SportKey: "americanfootball_nfl", SportTitle: "NFL", HomeTeam: "San Francisco 49ers", AwayTeam: "Seattle Seahawks"},
	{ID: "sim0004", SportKey: "americanfootball_nfl", SportTitle: "NFL", HomeTeam: "Detroit Lions", AwayTeam: "Green Bay Packers"},
}

var bookCatalog = []struct{ key, title string }{
	{"draftkings", "DraftKings"},
	{"fanduel", "FanDuel"},
	{"betmgm", "BetMGM"},
}

// Métricas Prometheus para monitoramento do feed
var feedRequests = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "feed_sim_requests_total",
	Help: "Requisições atendidas pelo feed simulado",
})

// rndAmerican gera um preço americano plausível fora da faixa (-100, 100)
func rndAmerican() int {
	v := 100 + rand.Intn(250)
	if rand.Intn(2) == 0 {
		return -v
	}
	return v
}

func ptr[T any](v T) *T { return &v }

// buildEvent monta um evento no shape exato da the-odds-api v4,
// com h2h, spreads e totals para cada bookmaker do catálogo
func buildEvent(base oddsapi.APIEvent, now time.Time) oddsapi.APIEvent {
	ev := base
	commence := now.Add(time.Duration(24+rand.Intn(72)) * time.Hour).Truncate(time.Hour)
	ev.CommenceTime = &commence

	spread := float64(rand.Intn(21))/2.0 + 0.5 // 0.5 a 10.5
	total := 38.5 + float64(rand.Intn(33))/2.0 // 38.5 a 54.5

	for _, book := range bookCatalog {
		update := now.Add(-time.Duration(rand.Intn(120)) * time.Second)
		ev.Bookmakers = append(ev.Bookmakers, oddsapi.APIBookmaker{
			Key:        book.key,
			Title:      book.title,
			LastUpdate: &update,
			Markets: []oddsapi.APIMarket{
				{
					Key:        "h2h",
					LastUpdate: &update,
					Outcomes: []oddsapi.APIOutcome{
						{Name: ev.HomeTeam, Price: rndAmerican()},
						{Name: ev.AwayTeam, Price: rndAmerican()},
					},
				},
				{
					Key:        "spreads",
					LastUpdate: &update,
					Outcomes: []oddsapi.APIOutcome{
						{Name: ev.HomeTeam, Price: rndAmerican(), Point: ptr(-spread)},
						{Name: ev.AwayTeam, Price: rndAmerican(), Point: ptr(spread)},
					},
				},
				{
					Key:        "totals",
					LastUpdate: &update,
					Outcomes: []oddsapi.APIOutcome{
						{Name: "Over", Price: rndAmerican(), Point: ptr(total)},
						{Name: "Under", Price: rndAmerican(), Point: ptr(total)},
					},
				},
			},
		})
	}
	return ev
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(feedRequests)

	mux := http.NewServeMux()

	// Mesma rota da API real; o path do esporte é ignorado no simulador
	mux.HandleFunc("/v4/sports/", func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		out := make([]oddsapi.APIEvent, 0, len(eventCatalog))
		for _, base := range eventCatalog {
			out = append(out, buildEvent(base, now))
		}

		feedRequests.Inc()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("x-requests-remaining", "500")
		w.Header().Set("x-requests-used", "0")
		_ = json.NewEncoder(w).Encode(out)
	})

	metrics.StartMetricsServer(cfg.MetricsPort, nil)
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("feed simulator running", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("feed server error", zap.Error(err))
	}
}
