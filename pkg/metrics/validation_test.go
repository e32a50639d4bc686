package metrics

import (
	"testing"
	"time"

	"github.com/dukex/flowmender/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordReport(t *testing.T) {
	report := models.NewValidationReport()
	report.Add(models.ValidationIssue{Category: models.CategoryConnection, Severity: models.SeverityError, Message: "dangling"})
	report.Add(models.ValidationIssue{Category: models.CategoryParameter, Severity: models.SeverityWarning, Message: "missing"})
	report.Finalize(2, 1)

	invalidBefore := testutil.ToFloat64(validations.With(prometheus.Labels{"result": "invalid", "strict": "true"}))
	connectionBefore := testutil.ToFloat64(issues.With(prometheus.Labels{"category": "ConnectionError", "severity": "error"}))
	parameterBefore := testutil.ToFloat64(issues.With(prometheus.Labels{"category": "ParameterError", "severity": "warning"}))

	RecordReport(report, true, 3*time.Millisecond)

	assert.InDelta(t, invalidBefore+1, testutil.ToFloat64(validations.With(prometheus.Labels{"result": "invalid", "strict": "true"})), 0)
	assert.InDelta(t, connectionBefore+1, testutil.ToFloat64(issues.With(prometheus.Labels{"category": "ConnectionError", "severity": "error"})), 0)
	assert.InDelta(t, parameterBefore+1, testutil.ToFloat64(issues.With(prometheus.Labels{"category": "ParameterError", "severity": "warning"})), 0)
}

func TestRecordCorrections(t *testing.T) {
	before := testutil.ToFloat64(corrections.With(prometheus.Labels{"phase": "connection"}))

	RecordCorrections([]models.Correction{
		{Phase: models.PhaseConnection, NodeID: "a"},
		{Phase: models.PhaseConnection, NodeID: "b"},
		{Phase: models.PhaseIdentity, NodeID: "c"},
	})

	assert.InDelta(t, before+2, testutil.ToFloat64(corrections.With(prometheus.Labels{"phase": "connection"})), 0)
}
