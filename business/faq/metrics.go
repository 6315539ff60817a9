package faq

import "github.com/prometheus/client_golang/prometheus"

var (
	AnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_faq_answers_total",
			Help: "Chat answers by source.",
		},
		[]string{"source"},
	)

	MatchConfidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_faq_match_confidence",
		Help:    "Best similarity score against the question bank per question.",
		Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.55, 0.6, 0.7, 0.8, 0.9, 1},
	})
)

func init() {
	prometheus.MustRegister(AnswersTotal, MatchConfidence)
}
