// Package metrics exposes prometheus collectors for validation and repair runs.
package metrics

import (
	"strconv"
	"time"

	"github.com/dukex/flowmender/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowmender_validations_total",
			Help: "Total validation runs by outcome and strict mode",
		},
		[]string{"result", "strict"},
	)

	issues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowmender_issues_total",
			Help: "Total validation issues reported by category and severity",
		},
		[]string{"category", "severity"},
	)

	corrections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowmender_corrections_total",
			Help: "Total corrections applied by auto-repair phase",
		},
		[]string{"phase"},
	)

	duration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowmender_validation_duration_seconds",
			Help:    "Duration of validate and repair runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
)

// RecordReport counts a finished validation run and every issue in its report.
func RecordReport(report *models.ValidationReport, strict bool, elapsed time.Duration) {
	result := "invalid"
	if report.IsValid {
		result = "valid"
	}

	validations.WithLabelValues(result, strconv.FormatBool(strict)).Inc()

	for _, list := range [][]models.ValidationIssue{report.Errors, report.Warnings} {
		for _, issue := range list {
			issues.WithLabelValues(string(issue.Category), string(issue.Severity)).Inc()
		}
	}

	duration.Observe(elapsed.Seconds())
}

// RecordCorrections counts applied corrections by phase.
func RecordCorrections(applied []models.Correction) {
	for _, correction := range applied {
		corrections.WithLabelValues(string(correction.Phase)).Inc()
	}
}
