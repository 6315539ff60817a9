package recommender

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TrainingTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_recommender_training_total",
			Help: "Count of recommender training runs by result.",
		},
		[]string{"result"},
	)

	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_recommender_training_duration_seconds",
		Help:    "Duration of recommender training runs.",
		Buckets: prometheus.DefBuckets,
	})

	ModelFeedbackRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "advisor_recommender_model_feedback_rows",
		Help: "Feedback rows used by the currently installed model.",
	})

	RecommendationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "advisor_recommendations_total",
		Help: "Total recommendation lists served.",
	})

	FeedbackSavedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_feedback_saved_total",
			Help: "Feedback rows by outcome.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		TrainingTotal,
		TrainingDuration,
		ModelFeedbackRows,
		RecommendationsTotal,
		FeedbackSavedTotal,
	)
}
