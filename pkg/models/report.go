package models

// Severity tags an issue as fatal or merely incomplete.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueCategory classifies a validation issue.
type IssueCategory string

const (
	CategorySchema     IssueCategory = "SchemaError"
	CategoryNodeType   IssueCategory = "NodeTypeError"
	CategoryParameter  IssueCategory = "ParameterError"
	CategoryConnection IssueCategory = "ConnectionError"
	CategoryCredential IssueCategory = "CredentialError"
)

// ValidationIssue is a single finding of the validator.
type ValidationIssue struct {
	Category IssueCategory `json:"type"`
	Severity Severity      `json:"severity"`
	NodeID   string        `json:"nodeId,omitempty"`
	Message  string        `json:"message"`
}

// ReportSummary holds the totals of a validation run.
type ReportSummary struct {
	TotalErrors          int `json:"totalErrors"`
	TotalWarnings        int `json:"totalWarnings"`
	NodesValidated       int `json:"nodesValidated"`
	ConnectionsValidated int `json:"connectionsValidated"`
}

// ValidationReport is the outcome of validating (and possibly repairing) a graph.
type ValidationReport struct {
	IsValid            bool              `json:"isValid"`
	Errors             []ValidationIssue `json:"errors"`
	Warnings           []ValidationIssue `json:"warnings"`
	Corrections        int               `json:"corrections"`
	AppliedCorrections []Correction      `json:"appliedCorrections,omitempty"`
	Summary            ReportSummary     `json:"summary"`
}

// NewValidationReport creates an empty report.
func NewValidationReport() *ValidationReport {
	return &ValidationReport{
		Errors:   make([]ValidationIssue, 0),
		Warnings: make([]ValidationIssue, 0),
	}
}

// Add records an issue in the list matching its severity.
func (r *ValidationReport) Add(issue ValidationIssue) {
	if issue.Severity == SeverityError {
		r.Errors = append(r.Errors, issue)

		return
	}

	r.Warnings = append(r.Warnings, issue)
}

// PromoteWarnings moves every warning into the error list with Error severity.
func (r *ValidationReport) PromoteWarnings() {
	for _, warning := range r.Warnings {
		warning.Severity = SeverityError
		r.Errors = append(r.Errors, warning)
	}

	r.Warnings = make([]ValidationIssue, 0)
}

// Finalize computes IsValid and the summary totals.
func (r *ValidationReport) Finalize(nodes, connections int) {
	r.IsValid = len(r.Errors) == 0
	r.Summary = ReportSummary{
		TotalErrors:          len(r.Errors),
		TotalWarnings:        len(r.Warnings),
		NodesValidated:       nodes,
		ConnectionsValidated: connections,
	}
}

// IssuesFor returns all errors and warnings of the given category.
func (r *ValidationReport) IssuesFor(category IssueCategory) []ValidationIssue {
	issues := make([]ValidationIssue, 0)

	for _, list := range [][]ValidationIssue{r.Errors, r.Warnings} {
		for _, issue := range list {
			if issue.Category == category {
				issues = append(issues, issue)
			}
		}
	}

	return issues
}

// RepairPhase names the auto-repair phase that produced a correction.
type RepairPhase string

const (
	PhaseIdentity   RepairPhase = "identity"
	PhaseTypeRemap  RepairPhase = "type_remap"
	PhaseConnection RepairPhase = "connection"
	PhaseParameter  RepairPhase = "parameter"
)

// Correction records one change made by auto-repair.
type Correction struct {
	Phase       RepairPhase `json:"phase"`
	NodeID      string      `json:"nodeId,omitempty"`
	Description string      `json:"description"`
}
