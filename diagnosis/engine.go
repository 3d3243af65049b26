package diagnosis

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/simao-eugenio/shypn-sub018/config"
	"github.com/simao-eugenio/shypn-sub018/knowledge"
	"github.com/simao-eugenio/shypn-sub018/pathway"
	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// Engine runs investigations against one knowledge base. The base
// reference is captured at construction so concurrent open models can
// never cross-contaminate an investigation.
type Engine struct {
	kb  *knowledge.Base
	cfg *config.Config
}

// NewEngine binds an engine to a knowledge base. A nil config uses
// defaults.
func NewEngine(kb *knowledge.Base, cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{kb: kb, cfg: cfg}
}

// InvestigateLocality runs the level-1 analyzer on one transition's
// locality.
func (e *Engine) InvestigateLocality(transitionID string) (*Report, error) {
	loc, err := e.kb.Net().LocalityOf(transitionID)
	if err != nil {
		return nil, fmt.Errorf("diagnosis: %w", err)
	}
	report := &Report{}
	e.analyzeLocality(loc, report)
	e.count(report)
	return report, nil
}

// InvestigateSubnet extracts a subnet from the named localities and
// runs all four analysis levels over it. Disconnected selections are
// rejected with the diagnostic component partition in the error.
func (e *Engine) InvestigateSubnet(transitionIDs []string) (*Report, error) {
	localities := make([]*pathway.Locality, 0, len(transitionIDs))
	for _, tid := range transitionIDs {
		loc, err := e.kb.Net().LocalityOf(tid)
		if err != nil {
			return nil, fmt.Errorf("diagnosis: %w", err)
		}
		localities = append(localities, loc)
	}

	sn, err := subnet.Build(e.kb.Net(), localities)
	if err != nil {
		return nil, fmt.Errorf("diagnosis: %w", err)
	}

	report := &Report{Dependencies: sn.Dependencies}
	for _, loc := range localities {
		e.analyzeLocality(loc, report)
	}
	e.analyzeDependencies(sn, report)
	e.analyzeBoundary(sn, report)
	e.analyzeConservation(sn, report)
	e.count(report)
	return report, nil
}

func (e *Engine) count(report *Report) {
	for _, issue := range report.Issues {
		issuesEmitted.WithLabelValues(string(issue.Severity), string(issue.Category)).Inc()
	}
	suggestionsEmitted.Add(float64(len(report.Suggestions)))
}

func (e *Engine) addIssue(report *Report, issue Issue) {
	report.Issues = append(report.Issues, issue)
}

func (e *Engine) addSuggestion(report *Report, s Suggestion) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Priority == "" {
		s.Priority = PriorityNormal
	}
	report.Suggestions = append(report.Suggestions, s)
}
