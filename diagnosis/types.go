// Package diagnosis detects problems in user-selected regions of a
// token-flow network and proposes ranked, explainable repair
// suggestions. Four analyzers of increasing scope run over the
// knowledge base and an extracted subnet: per-transition locality
// checks, inter-locality dependency checks, subnet-boundary
// accumulation and depletion checks, and conservation-law checks
// against simulation traces.
package diagnosis

import (
	"sort"

	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// Severity grades an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Category names the kind of problem an issue reports.
type Category string

const (
	CategoryStructural   Category = "structural"
	CategoryBiological   Category = "biological"
	CategoryKinetic      Category = "kinetic"
	CategoryFlow         Category = "flow"
	CategoryBottleneck   Category = "bottleneck"
	CategoryCascade      Category = "cascade"
	CategoryAccumulation Category = "accumulation"
	CategoryDepletion    Category = "depletion"
	CategoryBalance      Category = "balance"
	CategoryPInvariant   Category = "p-invariant"
	CategoryMassBalance  Category = "mass-balance"
	CategoryLeak         Category = "leak"
)

// Action identifies the kind of repair a suggestion proposes.
type Action string

const (
	ActionSetMarking Action = "set-marking"
	ActionSetRate    Action = "set-rate"
	ActionSetWeight  Action = "set-weight"
	ActionAddSource  Action = "add-source"
	ActionAddSink    Action = "add-sink"
)

// Priority flags suggestions that address critical conditions.
type Priority string

const (
	PriorityNormal   Priority = "normal"
	PriorityCritical Priority = "critical"
)

// Issue is one detected problem.
type Issue struct {
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	ElementIDs []string `json:"elementIds,omitempty"`
	// Scope tags the locality or subnet the issue was found in.
	Scope string `json:"scope,omitempty"`
}

// Suggestion is one proposed repair with its confidence and the
// reasoning trail naming the knowledge sources that contributed.
type Suggestion struct {
	ID         string   `json:"id"`
	Action     Action   `json:"action"`
	TargetID   string   `json:"targetId"`
	Value      float64  `json:"value"`
	Confidence float64  `json:"confidence"`
	Reasoning  []string `json:"reasoning,omitempty"`
	Priority   Priority `json:"priority"`
}

// BoundaryAnalysis summarizes token flow across the subnet boundary.
type BoundaryAnalysis struct {
	// Inputs is the token count drawn from input boundary places,
	// Outputs the count pushed to output boundary places, over the
	// analyzed trajectory.
	Inputs  int `json:"inputs"`
	Outputs int `json:"outputs"`
	NetFlow int `json:"netFlow"`

	// InputPlaces and OutputPlaces list the boundary places by their
	// flow direction relative to the subnet. A place feeding and fed
	// by the outside appears in both.
	InputPlaces  []string `json:"inputPlaces,omitempty"`
	OutputPlaces []string `json:"outputPlaces,omitempty"`
}

// ConservationAnalysis summarizes conservation-law findings.
type ConservationAnalysis struct {
	ViolatedInvariants []string `json:"violatedInvariants,omitempty"`
	MassImbalances     []string `json:"massImbalances,omitempty"`
	Leaks              []string `json:"leaks,omitempty"`
}

// Report is the combined outcome of an investigation.
type Report struct {
	Issues       []Issue               `json:"issues"`
	Suggestions  []Suggestion          `json:"suggestions"`
	Dependencies []subnet.Dependency   `json:"dependencies,omitempty"`
	Boundary     *BoundaryAnalysis     `json:"boundary,omitempty"`
	Conservation *ConservationAnalysis `json:"conservation,omitempty"`
}

// IssuesBySeverity returns the issues with the given severity.
func (r *Report) IssuesBySeverity(sev Severity) []Issue {
	var result []Issue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			result = append(result, issue)
		}
	}
	return result
}

// IssuesByCategory returns the issues with the given category.
func (r *Report) IssuesByCategory(cat Category) []Issue {
	var result []Issue
	for _, issue := range r.Issues {
		if issue.Category == cat {
			result = append(result, issue)
		}
	}
	return result
}

// RankedSuggestions returns the suggestions ordered by priority first
// (critical before normal), then descending confidence.
func (r *Report) RankedSuggestions() []Suggestion {
	ranked := append([]Suggestion(nil), r.Suggestions...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if (a.Priority == PriorityCritical) != (b.Priority == PriorityCritical) {
			return a.Priority == PriorityCritical
		}
		return a.Confidence > b.Confidence
	})
	return ranked
}
