package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BotUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "forecastbot", Name: "updates_total", Help: "Processed telegram updates",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "forecastbot", Name: "handler_errors_total", Help: "Handler errors",
	})
	PredictionsSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forecastbot", Name: "predictions_submitted_total", Help: "Accepted predictions",
	}, []string{"class"})
	PredictionsSettled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forecastbot", Name: "predictions_settled_total", Help: "Settled predictions",
	}, []string{"outcome"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "forecastbot", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(BotUpdates, HandlerErrors, PredictionsSubmitted, PredictionsSettled, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
