package knowledge

import (
	"fmt"
	"log/slog"

	"github.com/simao-eugenio/shypn-sub018/pathway"
)

// Domain tags an ingest item with the knowledge domain it updates.
type Domain string

const (
	DomainMarking     Domain = "marking"
	DomainPInvariants Domain = "p-invariants"
	DomainTInvariants Domain = "t-invariants"
	DomainSiphons     Domain = "siphons"
	DomainTraps       Domain = "traps"
	DomainLiveness    Domain = "liveness"
	DomainDeadlocks   Domain = "deadlocks"
	DomainBoundedness Domain = "boundedness"
	DomainPathway     Domain = "pathway"
	DomainCompounds   Domain = "compounds"
	DomainReactions   Domain = "reactions"
	DomainMappings    Domain = "mappings"
	DomainKinetics    Domain = "kinetics"
	DomainTrace       Domain = "trace"
)

// Item is one raw analyzer result awaiting conversion. Payload must
// carry the record type the domain expects; anything else is rejected
// at this boundary.
type Item struct {
	Domain  Domain
	Payload any
}

// Mappings is the payload shape for DomainMappings.
type Mappings struct {
	PlaceCompound      map[string]string
	TransitionReaction map[string]string
}

// IngestReport summarizes one batch: which items were applied and
// which were skipped, with the reason for each skip.
type IngestReport struct {
	Applied int
	Skipped []SkippedItem
}

// SkippedItem records one rejected batch item.
type SkippedItem struct {
	Index  int
	Domain Domain
	Err    error
}

// Ingest applies a batch of raw analyzer results. Conversion or
// validation failure of one item is logged and skipped so a single
// malformed result never blocks ingestion of the rest. The returned
// report says exactly what happened to each item.
func (b *Base) Ingest(items []Item, logger *slog.Logger) IngestReport {
	if logger == nil {
		logger = slog.Default()
	}
	var report IngestReport
	for i, item := range items {
		if err := b.ingestOne(item); err != nil {
			logger.Warn("knowledge ingest skipped item",
				"model_id", b.ModelID,
				"domain", string(item.Domain),
				"index", i,
				"err", err)
			updatesRejected.WithLabelValues(string(item.Domain)).Inc()
			report.Skipped = append(report.Skipped, SkippedItem{Index: i, Domain: item.Domain, Err: err})
			continue
		}
		updatesApplied.WithLabelValues(string(item.Domain)).Inc()
		report.Applied++
	}
	return report
}

func (b *Base) ingestOne(item Item) error {
	switch item.Domain {
	case DomainMarking:
		m, ok := item.Payload.(pathway.Marking)
		if !ok {
			return badPayload(item, "pathway.Marking")
		}
		return b.UpdateMarking(m)
	case DomainPInvariants:
		v, ok := item.Payload.([]PInvariant)
		if !ok {
			return badPayload(item, "[]PInvariant")
		}
		return b.UpdatePInvariants(v)
	case DomainTInvariants:
		v, ok := item.Payload.([]TInvariant)
		if !ok {
			return badPayload(item, "[]TInvariant")
		}
		return b.UpdateTInvariants(v)
	case DomainSiphons:
		v, ok := item.Payload.([]Siphon)
		if !ok {
			return badPayload(item, "[]Siphon")
		}
		return b.UpdateSiphons(v)
	case DomainTraps:
		v, ok := item.Payload.([]Trap)
		if !ok {
			return badPayload(item, "[]Trap")
		}
		return b.UpdateTraps(v)
	case DomainLiveness:
		v, ok := item.Payload.(map[string]int)
		if !ok {
			return badPayload(item, "map[string]int")
		}
		return b.UpdateLiveness(v)
	case DomainDeadlocks:
		v, ok := item.Payload.([]DeadlockMarking)
		if !ok {
			return badPayload(item, "[]DeadlockMarking")
		}
		return b.UpdateDeadlocks(v)
	case DomainBoundedness:
		v, ok := item.Payload.(map[string]int)
		if !ok {
			return badPayload(item, "map[string]int")
		}
		return b.UpdateBoundedness(v)
	case DomainPathway:
		v, ok := item.Payload.(Pathway)
		if !ok {
			return badPayload(item, "Pathway")
		}
		return b.UpdatePathway(v)
	case DomainCompounds:
		v, ok := item.Payload.([]Compound)
		if !ok {
			return badPayload(item, "[]Compound")
		}
		return b.UpdateCompounds(v)
	case DomainReactions:
		v, ok := item.Payload.([]Reaction)
		if !ok {
			return badPayload(item, "[]Reaction")
		}
		return b.UpdateReactions(v)
	case DomainMappings:
		v, ok := item.Payload.(Mappings)
		if !ok {
			return badPayload(item, "Mappings")
		}
		return b.UpdateMappings(v.PlaceCompound, v.TransitionReaction)
	case DomainKinetics:
		v, ok := item.Payload.([]KineticParameters)
		if !ok {
			return badPayload(item, "[]KineticParameters")
		}
		return b.UpdateKinetics(v)
	case DomainTrace:
		v, ok := item.Payload.(SimulationTrace)
		if !ok {
			return badPayload(item, "SimulationTrace")
		}
		return b.UpdateTrace(v)
	default:
		return fmt.Errorf("knowledge: unknown ingest domain %q", item.Domain)
	}
}

func badPayload(item Item, want string) error {
	return fmt.Errorf("knowledge: domain %s expects %s payload, got %T", item.Domain, want, item.Payload)
}
