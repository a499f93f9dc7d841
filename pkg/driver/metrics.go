package driver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/odvcencio/virtualviews/pkg/reconcile"
)

var (
	metricMessagesHandled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "virtualviews",
		Name:      "messages_handled_total",
		Help:      "Messages processed by the driver loop.",
	})
	metricCommandsInterpreted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "virtualviews",
		Name:      "commands_interpreted_total",
		Help:      "Commands handed to the interpreter, by kind.",
	}, []string{"kind"})
	metricRenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "virtualviews",
		Name:      "render_duration_seconds",
		Help:      "Time spent reconciling the controller tree.",
		Buckets:   []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1},
	})
	metricWidgets = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "virtualviews",
		Name:      "widgets_total",
		Help:      "Native objects touched by renders, by outcome.",
	}, []string{"outcome"})
	metricSubscriptionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "virtualviews",
		Name:      "subscriptions_active",
		Help:      "Running subscription resources.",
	})
)

func recordRender(seconds float64, stats reconcile.Stats) {
	metricRenderDuration.Observe(seconds)
	metricWidgets.WithLabelValues("created").Add(float64(stats.Created))
	metricWidgets.WithLabelValues("reused").Add(float64(stats.Reused))
}
