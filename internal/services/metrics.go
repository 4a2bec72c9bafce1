package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datasetsCleaned = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fmvtracker",
		Name:      "datasets_cleaned_total",
		Help:      "Number of dataset tables run through the cleaning pipeline.",
	}, []string{"dataset"})

	rowsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fmvtracker",
		Name:      "rows_processed_total",
		Help:      "Number of rows produced by the cleaning pipeline.",
	}, []string{"dataset"})
)
